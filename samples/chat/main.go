// Copyright (c) StackSpot. All rights reserved.

// Command chat demonstrates a multi-turn conversation with an existing
// agent, with optional file attachments and streaming.
//
// Usage:
//
//	export STACKSPOT_REALM=my-realm
//	export STACKSPOT_CLIENT_ID=...
//	export STACKSPOT_CLIENT_SECRET=...
//	export STACKSPOT_AGENT_ID=...
//	go run .
//
// Type a question to chat. Special commands:
//
//	stream <question>   stream the answer as it is produced
//	upload <paths...>   attach files to the next question
//	clear               drop the conversation history
//	quit                exit
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/stackspot/agent-sdk-go/agentchat"
	"github.com/stackspot/agent-sdk-go/config"
	"github.com/stackspot/agent-sdk-go/stackspot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.AgentID == "" {
		log.Fatal("Set STACKSPOT_AGENT_ID to the agent to chat with")
	}

	logger := slog.Default()
	if os.Getenv("DEBUG") != "" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	retry := stackspot.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	opts := []stackspot.Option{
		stackspot.WithTimeout(cfg.Timeout),
		stackspot.WithRetryConfig(retry),
		stackspot.WithUploadConcurrency(cfg.UploadConcurrency),
		stackspot.WithLogger(logger),
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

	chat := agentchat.New(client, agentchat.WithLogger(logger))

	fmt.Println("Chat with the agent (type 'quit' to exit)")
	fmt.Println()

	var pendingFiles []string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}
		if input == "clear" {
			chat.Session().Clear()
			fmt.Println("History cleared.")
			continue
		}
		if rest, ok := strings.CutPrefix(input, "upload "); ok {
			for _, p := range strings.Fields(rest) {
				if _, err := os.Stat(p); err != nil {
					fmt.Printf("File not found: %s\n", p)
					continue
				}
				pendingFiles = append(pendingFiles, p)
			}
			fmt.Printf("%d file(s) will be attached to the next question.\n", len(pendingFiles))
			continue
		}

		ctx := context.Background()
		var askOpts []agentchat.AskOption
		if len(pendingFiles) > 0 {
			askOpts = append(askOpts, agentchat.WithFiles(pendingFiles...))
			pendingFiles = nil
		}

		if rest, ok := strings.CutPrefix(input, "stream "); ok {
			stream, err := chat.AskStream(ctx, rest, askOpts...)
			if err != nil {
				log.Printf("Error: %v", err)
				continue
			}

			fmt.Print("Agent: ")
			for {
				chunk, more, err := stream.Next(ctx)
				if err != nil {
					log.Printf("\nStream error: %v", err)
					break
				}
				if !more {
					break
				}
				fmt.Print(chunk)
			}
			fmt.Println()
			stream.Close()
			continue
		}

		answer, err := chat.Ask(ctx, input, askOpts...)
		if err != nil {
			log.Printf("Error: %v", err)
			continue
		}
		fmt.Printf("Agent: %s\n\n", answer)
	}
}
