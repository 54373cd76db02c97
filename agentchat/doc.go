// Copyright (c) StackSpot. All rights reserved.

// Package agentchat provides the core types for conversing with a StackSpot
// AI agent: the chat surface, sessions, streaming answers, file-upload
// results, and the error taxonomy.
//
// # Quick Start
//
// Create a platform client (from the stackspot package) and wrap it in an
// [AgentChat]:
//
//	client, err := stackspot.New(agentID, creds)
//	chat := agentchat.New(client)
//
//	answer, err := chat.Ask(ctx, "Summarize the attached report",
//	    agentchat.WithFiles("report.pdf"),
//	)
//
// # Architecture
//
// The package is organized around these abstractions:
//
//   - [AgentChat]: composes a chat transport with a file uploader and owns a
//     session. Capability sets are split: [InferenceClient] answers
//     questions, [FileUploader] pushes files; agent lifecycle management
//     lives in the platform package.
//   - [Session]: conversation identity, append-only history, and free-form
//     context carried with each question.
//   - [AnswerStream]: forward-only, single-consumption delivery of an answer
//     as it is produced.
//
// # Errors
//
// All failures are typed. Match categories with errors.Is ([ErrAuth],
// [ErrAPI], [ErrUpload], [ErrUsage]) and extract detail with errors.As
// ([AuthError], [APIError], [UploadError]).
//
// # Streaming
//
// Streaming answers hold an open connection; drain them or close them:
//
//	stream, err := chat.AskStream(ctx, "Explain this design")
//	defer stream.Close()
//	for {
//	    chunk, ok, err := stream.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    fmt.Print(chunk)
//	}
package agentchat
