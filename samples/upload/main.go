// Copyright (c) StackSpot. All rights reserved.

// Command upload pushes the given files to the platform as question context
// and asks a single question about them.
//
//	go run . "Summarize these documents" report.pdf notes.md
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/stackspot/agent-sdk-go/agentchat"
	"github.com/stackspot/agent-sdk-go/config"
	"github.com/stackspot/agent-sdk-go/stackspot"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatalf("usage: %s <question> <files...>", os.Args[0])
	}
	question, files := os.Args[1], os.Args[2:]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.AgentID == "" {
		log.Fatal("Set STACKSPOT_AGENT_ID to the agent to ask")
	}

	retry := stackspot.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	opts := []stackspot.Option{
		stackspot.WithTimeout(cfg.Timeout),
		stackspot.WithRetryConfig(retry),
		stackspot.WithUploadConcurrency(cfg.UploadConcurrency),
	}
	if cfg.AuthURL != "" {
		opts = append(opts, stackspot.WithAuthURL(cfg.AuthURL))
	}
	if cfg.InferenceURL != "" {
		opts = append(opts, stackspot.WithInferenceURL(cfg.InferenceURL))
	}
	if cfg.UploadURL != "" {
		opts = append(opts, stackspot.WithUploadURL(cfg.UploadURL))
	}

	client, err := stackspot.New(cfg.AgentID, stackspot.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Realm:        cfg.Realm,
	}, opts...)
	if err != nil {
		log.Fatal(err)
	}

	chat := agentchat.New(client)

	answer, err := chat.Ask(context.Background(), question,
		agentchat.WithFiles(files...),
		agentchat.WithAllOrNothing(),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(answer)
}
