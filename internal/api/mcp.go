package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hollandm/ranger/internal/fetch"
)

// MCPFetcher is the fetcher surface the MCP tools call.
type MCPFetcher interface {
	GeneralInfo(ctx context.Context, parkName string) fetch.Result
	Alerts(ctx context.Context, parkName string) fetch.Result
	TripPlan(ctx context.Context, parkName string, params fetch.TripParams) fetch.Result
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Index    Roster
	Fetchers MCPFetcher
}

// NewMCPServer creates an MCP server exposing the park tools and the
// roster resource.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"ranger",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("ranger — National Parks information: park lookup, alerts, and trip planning."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("resolve_park",
			mcp.WithDescription("Resolve a free-text park name to its official name and park code."),
			mcp.WithString("name", mcp.Description("Park name, full or approximate"), mcp.Required()),
		),
		mcpResolvePark(deps),
	)

	s.AddTool(
		mcp.NewTool("park_info",
			mcp.WithDescription("Get the description and weather overview for a national park."),
			mcp.WithString("name", mcp.Description("Park name"), mcp.Required()),
		),
		mcpParkInfo(deps),
	)

	s.AddTool(
		mcp.NewTool("park_alerts",
			mcp.WithDescription("Get current alerts (closures, hazards, conditions) for a national park."),
			mcp.WithString("name", mcp.Description("Park name"), mcp.Required()),
		),
		mcpParkAlerts(deps),
	)

	s.AddTool(
		mcp.NewTool("trip_plan",
			mcp.WithDescription("Assemble trip planning material for a park: overview, campgrounds, activities, and fees."),
			mcp.WithString("name", mcp.Description("Park name"), mcp.Required()),
			mcp.WithNumber("durationDays", mcp.Description("Trip length in days")),
			mcp.WithString("month", mcp.Description("Month of the visit")),
			mcp.WithNumber("groupSize", mcp.Description("Number of people")),
		),
		mcpTripPlan(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"parks://roster",
			"Park Roster",
			mcp.WithResourceDescription("All national parks with codes and states, as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRoster(deps),
	)

	return s
}

func mcpResolvePark(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}

		entry, ok := deps.Index.ResolveEntry(name)
		if !ok {
			return mcpError(fmt.Sprintf("no park matching %q", name)), nil
		}

		b, err := json.Marshal(entry)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal park: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpParkInfo(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}
		return mcpText(deps.Fetchers.GeneralInfo(ctx, name).Text), nil
	}
}

func mcpParkAlerts(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}
		return mcpText(deps.Fetchers.Alerts(ctx, name).Text), nil
	}
}

func mcpTripPlan(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}

		params := fetch.TripParams{
			DurationDays: req.GetInt("durationDays", 0),
			Month:        req.GetString("month", ""),
			GroupSize:    req.GetInt("groupSize", 0),
		}
		return mcpText(deps.Fetchers.TripPlan(ctx, name, params).Text), nil
	}
}

func mcpResourceRoster(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if !deps.Index.Loaded() {
			return nil, fmt.Errorf("park roster is still loading")
		}

		b, err := json.Marshal(deps.Index.Entries())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal roster: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
	}
}
