package medassist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tenwave/medassist/common/logger"
)

// ServerName identifies the MCP server.
const ServerName = "medassist"

// NewMCPServer exposes the assistant as MCP tools.
func NewMCPServer(c *Client, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version)

	s.AddTool(mcp.NewToolWithRawSchema("chat",
		"Ask the hospital documents assistant a question within a session.",
		json.RawMessage(chatSchema)), handleChat(c))

	s.AddTool(mcp.NewToolWithRawSchema("search-chunks",
		"Search the document corpus and return matching passages.",
		json.RawMessage(searchChunksSchema)), handleSearchChunks(c))

	s.AddTool(mcp.NewToolWithRawSchema("create-chunks-from-text",
		"Split text into chunks and index them into the corpus.",
		json.RawMessage(createChunksSchema)), handleCreateChunks(c))

	s.AddTool(mcp.NewToolWithRawSchema("new-session",
		"Create a new conversation session.",
		json.RawMessage(newSessionSchema)), handleNewSession(c))

	s.AddTool(mcp.NewToolWithRawSchema("reset-session",
		"Clear a session's transcript and restore its initial suggestions.",
		json.RawMessage(resetSessionSchema)), handleResetSession(c))

	s.AddTool(mcp.NewToolWithRawSchema("list-sessions",
		"List sessions ordered by recency.",
		json.RawMessage(listSessionsSchema)), handleListSessions(c))

	s.AddTool(mcp.NewToolWithRawSchema("resolve-document",
		"Resolve a document path to a presigned URL.",
		json.RawMessage(resolveDocumentSchema)), handleResolveDocument(c))

	return s
}

func handleChat(c *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question := req.GetString("question", "")
		if question == "" {
			return mcp.NewToolResultError("question is required"), nil
		}
		sessionID := req.GetString("session_id", "")
		category := req.GetString("category", "")
		if sessionID == "" {
			sessionID = c.NewSession(category).ID
		}

		result, err := c.Chat(ctx, sessionID, question, category)
		if err != nil {
			logger.Errorf("chat tool failed: %v", err)
			return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleSearchChunks(c *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		results, err := c.Search(ctx, query, req.GetString("category", ""), req.GetInt("limit", 0))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		return jsonResult(results)
	}
}

func handleCreateChunks(c *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := req.GetString("text", "")
		if text == "" {
			return mcp.NewToolResultError("text is required"), nil
		}
		chunks, err := c.IngestText(ctx, text, req.GetString("relative_path", ""), req.GetString("category", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
		}
		return jsonResult(chunks)
	}
}

func handleNewSession(c *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(c.NewSession(req.GetString("category", "")))
	}
}

func handleResetSession(c *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("session_id", "")
		if id == "" {
			return mcp.NewToolResultError("session_id is required"), nil
		}
		if !c.ResetSession(id) {
			return mcp.NewToolResultError(fmt.Sprintf("session %s not found", id)), nil
		}
		s, _ := c.GetSession(id)
		return jsonResult(s)
	}
}

func handleListSessions(c *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(c.ListSessions())
	}
}

func handleResolveDocument(c *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("relative_path", "")
		if path == "" {
			return mcp.NewToolResultError("relative_path is required"), nil
		}
		docs := c.ResolveDocuments(ctx, []string{path})
		return jsonResult(docs[0])
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
