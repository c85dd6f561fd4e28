package tools

// AllTools contains all tool specifications for the Bears MCP server.
// Tool descriptions follow a structured format for LLM tool selection:
// - USE WHEN: Natural language triggers
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	{
		Name:     "bears_list",
		Method:   "ListBears",
		Title:    "List Bear Species",
		Category: "list",
		Description: `List every extant bear species from Wikipedia's "List of ursids" article.

USE WHEN: User asks "what bear species are there", "where do polar bears live", "show me a picture of a sun bear", "scientific name of the sloth bear".

PARAMETERS: none

RETURNS: Each species' common name, binomial name, geographic range and a direct image URL. Species whose image cannot be resolved carry the placeholder path media/placeholder.svg.

NOTE: Every call reads the live article; there is no caching.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
}

// ToolsByCategory returns the specs in the given category
func ToolsByCategory(category string) []ToolSpec {
	var specs []ToolSpec
	for _, spec := range AllTools {
		if spec.Category == category {
			specs = append(specs, spec)
		}
	}
	return specs
}
