package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hollandm/ranger/internal/config"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a chat message to the running server",
	Long: `Send a chat message to the running server.

Conversations are stateful: pass --conversation to continue one.

Examples:
  ranger ask "What are the operating hours for Yellowstone?"
  ranger ask --conversation 9f3c... "yes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID, _ := cmd.Flags().GetString("conversation")
		message := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{"userMessage": message}
		if conversationID != "" {
			req["conversationId"] = conversationID
		}

		resp, err := client.post(cmd.Context(), "/api/chat", req)
		if err != nil {
			return err
		}

		var result struct {
			BotMessage     string `json:"botMessage"`
			ConversationID string `json:"conversationId"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result.BotMessage)
		printStatus("Conversation", "%s", result.ConversationID)
		return nil
	},
}

// --- parks ---

var parksCmd = &cobra.Command{
	Use:   "parks",
	Short: "List all national parks known to the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/parks")
		if err != nil {
			return err
		}

		var result struct {
			Parks []struct {
				FullName string `json:"fullName"`
				ParkCode string `json:"parkCode"`
				States   string `json:"states"`
			} `json:"parks"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		for _, p := range result.Parks {
			fmt.Printf("  %s  %s (%s)\n", colorize(colorBold, p.ParkCode), p.FullName, p.States)
		}
		printSuccess("%d parks", len(result.Parks))
		return nil
	},
}

// --- query ---

var queryCmd = &cobra.Command{
	Use:   "query <park name>",
	Short: "Ask a single category question without a conversation",
	Long: `Ask a single category question without a conversation.

Categories: park_hours, permits, events, alerts, general_info,
campgrounds, things_to_do, fees_passes, road_conditions, webcams,
visitor_centers, trip_plan.

Examples:
  ranger query "Zion" --category campgrounds
  ranger query "Grand Canyon" --category trip_plan --days 3 --month June --group 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		days, _ := cmd.Flags().GetInt("days")
		month, _ := cmd.Flags().GetString("month")
		group, _ := cmd.Flags().GetInt("group")
		parkName := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"parkName": parkName,
			"category": category,
		}
		if days > 0 || month != "" || group > 0 {
			req["tripParams"] = map[string]any{
				"durationDays": days,
				"month":        month,
				"groupSize":    group,
			}
		}

		resp, err := client.post(cmd.Context(), "/api/query", req)
		if err != nil {
			return err
		}

		var result struct {
			Text string `json:"text"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result.Text)
		return nil
	},
}

func init() {
	askCmd.Flags().String("conversation", "", "conversation id to continue")

	queryCmd.Flags().String("category", "general_info", "question category")
	queryCmd.Flags().Int("days", 0, "trip length in days (trip_plan only)")
	queryCmd.Flags().String("month", "", "month of visit (trip_plan only)")
	queryCmd.Flags().Int("group", 0, "group size (trip_plan only)")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
