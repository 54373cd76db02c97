// Copyright (c) StackSpot. All rights reserved.

package stackspot

import (
	"context"
	"fmt"
	"net/http"
	neturl "net/url"
)

// LLMConfig selects the language model backing an agent.
type LLMConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// PromptConfig holds the agent's system prompt.
type PromptConfig struct {
	Content string `json:"content"`
}

// AgentDefinition describes an agent resource for create and update calls.
type AgentDefinition struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	LLM         LLMConfig    `json:"llm"`
	Prompt      PromptConfig `json:"prompt"`
}

// Agent is an agent resource as returned by the platform.
type Agent struct {
	ID string `json:"id"`
	AgentDefinition
}

// ManagementClient performs agent lifecycle operations. It is a separate
// capability from the chat path: [Client] answers questions, this type
// manages agent resources. Obtain one with [Client.Management].
type ManagementClient struct {
	tp        *transport
	agentsURL string
}

// Management returns a [ManagementClient] sharing this client's
// authenticated transport.
func (c *Client) Management() *ManagementClient {
	return &ManagementClient{tp: c.tp, agentsURL: c.agentsURL}
}

// Create registers a new agent and returns it with its platform-issued ID.
func (m *ManagementClient) Create(ctx context.Context, def *AgentDefinition) (*Agent, error) {
	body, err := m.tp.doJSON(ctx, http.MethodPost, m.agentsURL, def)
	if err != nil {
		return nil, err
	}
	var agent Agent
	if err := unmarshalResponse(body, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// List returns all agents visible to the credentials' realm.
func (m *ManagementClient) List(ctx context.Context) ([]Agent, error) {
	body, err := m.tp.doJSON(ctx, http.MethodGet, m.agentsURL, nil)
	if err != nil {
		return nil, err
	}
	var agents []Agent
	if err := unmarshalResponse(body, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// Get returns a single agent by ID.
func (m *ManagementClient) Get(ctx context.Context, id string) (*Agent, error) {
	body, err := m.tp.doJSON(ctx, http.MethodGet, m.agentURL(id), nil)
	if err != nil {
		return nil, err
	}
	var agent Agent
	if err := unmarshalResponse(body, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// Update replaces an agent's definition.
func (m *ManagementClient) Update(ctx context.Context, id string, def *AgentDefinition) (*Agent, error) {
	body, err := m.tp.doJSON(ctx, http.MethodPut, m.agentURL(id), def)
	if err != nil {
		return nil, err
	}
	var agent Agent
	if err := unmarshalResponse(body, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// Delete removes an agent.
func (m *ManagementClient) Delete(ctx context.Context, id string) error {
	_, err := m.tp.doJSON(ctx, http.MethodDelete, m.agentURL(id), nil)
	return err
}

func (m *ManagementClient) agentURL(id string) string {
	return fmt.Sprintf("%s/%s", m.agentsURL, neturl.PathEscape(id))
}
