package sqlgen

import (
	"fmt"
	"strings"
)

const draftFormatInstructions = `Respond with a single JSON object, no other text, of the form:
{"queries": [{"question": "<what the query answers>", "query": "<the SQL text>", "relevance": <0.0-1.0>, "is_time_based": <true|false>, "chart_type": "<Bar|Line|Area|Pie|Donut|Scatter>"}]}`

// draftPrompt builds the single batched generation instruction: schema,
// role, domain, dialect constraint, and the formatting contract for
// exactly 30 items, half of them time-based with date placeholders.
func draftPrompt(gc GenerationContext) (system, user string) {
	var b strings.Builder

	b.WriteString("You are an expert SQL query generator who creates insightful analytics queries tailored to specific business needs.\n\n")
	b.WriteString("Given a database schema, user role, and business domain, generate high-value SQL queries that would provide meaningful insights.\n\n")
	fmt.Fprintf(&b, "Database Schema:\n%s\n\n", gc.Schema)
	fmt.Fprintf(&b, "User Role: %s\nBusiness Domain: %s\n\n", gc.Role, gc.Domain)
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- %s\n", gc.Dialect.SyntaxInstruction())
	b.WriteString("- Carefully analyze the schema to identify relevant tables and relationships for the given domain\n")
	b.WriteString("- Generate exactly 30 insightful UNIQUE queries:\n")
	b.WriteString("  * 15 should analyze time-based trends (monthly, quarterly, year-over-year)\n")
	b.WriteString("  * 15 should provide non-time-based insights (distributions, ratios, aggregations)\n")
	fmt.Fprintf(&b, "- Each query should directly support decision-making for a %s in the %s context\n", gc.Role, gc.Domain)
	b.WriteString("- Use appropriate SQL techniques based on the schema structure\n")
	b.WriteString("- Assign a relevance score (0.0-1.0) indicating how valuable each query is for the role\n")
	fmt.Fprintf(&b, "- IMPORTANT: For time-based queries, use placeholders '%s' and '%s' instead of actual dates. These will be replaced with real dates later.\n", MinDatePlaceholder, MaxDatePlaceholder)
	b.WriteString("- For each query, recommend ONE of the following chart types that would best visualize the results:\n")
	b.WriteString("  * Bar: For comparing values across categories\n")
	b.WriteString("  * Line: For showing trends over time or continuous data\n")
	b.WriteString("  * Area: For emphasizing the magnitude of trends over time\n")
	b.WriteString("  * Pie: For showing proportions of a whole\n")
	b.WriteString("  * Donut: For showing proportions with a focus on a central value\n")
	b.WriteString("  * Scatter: For showing correlation between two variables\n")
	b.WriteString("- Try to use a variety of chart types across your recommendations.\n\n")
	b.WriteString(draftFormatInstructions)

	user = fmt.Sprintf("Generate SQL queries for the %s role in the %s domain using the database schema provided.", gc.Role, gc.Domain)
	return b.String(), user
}

// dateUpdatePrompt builds one rewrite instruction for the refiner. The
// rewrite policy lives here as an instruction contract: replace static
// bounds and placeholders, anchor relative intervals to the new max,
// and leave every non-temporal part of the query untouched.
func dateUpdatePrompt(item QueryWithID, minDate, maxDate string, dialect Dialect) (system, user string) {
	var b strings.Builder

	b.WriteString("You are an expert SQL query modifier specializing in updating time-based filters while preserving their original intent.\n\n")
	b.WriteString("Task: modify the given SQL query to use the new date range.\n\n")
	fmt.Fprintf(&b, "New Date Constraints:\n- Min Date: %s\n- Max Date: %s\n\n", minDate, maxDate)
	b.WriteString("Guidelines:\n")
	b.WriteString("1. Identify all date-related conditions in the query, including:\n")
	b.WriteString("   - Direct date comparisons: WHERE order_date = '2023-01-01'\n")
	b.WriteString("   - BETWEEN clauses: BETWEEN '2023-01-01' AND '2023-12-31'\n")
	b.WriteString("   - Date functions and relative filters: DATE_SUB, DATE_ADD, INTERVAL, EXTRACT\n")
	fmt.Fprintf(&b, "   - The placeholders %s and %s\n", MinDatePlaceholder, MaxDatePlaceholder)
	b.WriteString("2. Preserve relative date logic:\n")
	fmt.Fprintf(&b, "   - If the query uses INTERVAL-based conditions, adjust the base reference date to '%s' and keep the same interval.\n", maxDate)
	fmt.Fprintf(&b, "   - Example: login_time >= DATE_SUB(CURDATE(), INTERVAL 30 DAY) becomes login_time >= DATE_SUB('%s', INTERVAL 30 DAY)\n", maxDate)
	b.WriteString("3. Update static date literals:\n")
	fmt.Fprintf(&b, "   - Replace earliest dates and %s with '%s'.\n", MinDatePlaceholder, minDate)
	fmt.Fprintf(&b, "   - Replace latest dates and %s with '%s'.\n", MaxDatePlaceholder, maxDate)
	fmt.Fprintf(&b, "4. Modify BETWEEN clauses to BETWEEN '%s' AND '%s'.\n", minDate, maxDate)
	b.WriteString("5. DO NOT modify any other part of the query: table structure, column names, joins, and logic must remain unchanged. Preserve formatting and comments exactly.\n")
	fmt.Fprintf(&b, "6. %s\n\n", dialect.DateFunctionHint())
	b.WriteString("Output: return the updated SQL query inside a ```sql fenced block.\n")
	if item.Explanation != "" {
		b.WriteString("Also return the (unchanged or minimally adjusted) explanation inside a ```explanation fenced block.\n")
	}

	user = item.Query
	if item.Explanation != "" {
		user = fmt.Sprintf("%s\n\nExplanation: %s", item.Query, item.Explanation)
	}
	return b.String(), user
}

const nl2sqlFormatInstructions = `Respond with a single JSON object, no other text, of the form:
{"sql_query": "<the SQL text>", "explanation": "<what the query does, under 255 characters>", "chart_type": "<Bar|Line|Area|Pie|Donut|Scatter>"}`

// nl2sqlPrompt builds the single-question conversion instruction with
// the strict grounding rule: only schema tables and columns, sentinel
// error query when the schema cannot answer.
func nl2sqlPrompt(question, schema string, dialect Dialect) (system, user string) {
	var b strings.Builder

	b.WriteString("You are an expert SQL query generator capable of converting natural language questions into optimized SQL queries.\n\n")
	b.WriteString("Given a database schema and a user question, generate a single SQL query that retrieves the relevant data.\n\n")
	fmt.Fprintf(&b, "Database Schema:\n%s\n\n", schema)
	b.WriteString("Strict Rules:\n")
	b.WriteString("- Use ONLY tables and columns explicitly listed in the schema.\n")
	b.WriteString("- DO NOT assume or invent any tables, columns, or relationships.\n")
	b.WriteString("- Verify all table joins against the actual foreign key relationships in the schema.\n")
	b.WriteString("- Avoid unnecessary joins or complex subqueries unless absolutely necessary.\n")
	b.WriteString("- Prioritize indexed columns for filtering (WHERE) and sorting (ORDER BY).\n")
	b.WriteString("- If the schema does not support the request, return the query: \"Error: Required data not found in schema.\"\n\n")
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- %s\n", dialect.SyntaxInstruction())
	b.WriteString("- Understand the question intent and map it to relevant tables and columns.\n")
	b.WriteString("- Use GROUP BY and ORDER BY correctly when retrieving aggregated data.\n")
	b.WriteString("- Provide a short, clear explanation of the query's purpose within 255 characters.\n")
	b.WriteString("- Recommend ONE chart type that would best visualize the results: Bar, Line, Area, Pie, Donut, or Scatter.\n\n")
	b.WriteString(nl2sqlFormatInstructions)

	user = fmt.Sprintf("Convert the following natural language question into an SQL query: %s", question)
	return b.String(), user
}
