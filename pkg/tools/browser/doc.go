// Package browser provides the browse_web tool: it runs natural-language
// browsing tasks in remote browser sessions with a model-driven sub-agent.
//
// # Architecture
//
// The package is built around four pieces:
//
//  1. BrowseWebTool: the tool the top-level agent calls. It injects login
//     credentials into matching tasks and hands the task to an Executor.
//  2. Executor: leases a remote session (see package remote), connects a
//     Driver to its CDP endpoint, runs the SubAgent, and tears everything
//     down on every path.
//  3. SubAgent: a plan-act-observe loop. Each step the model picks actions
//     (navigate, click, fill, extract_content, search_page, wait_for,
//     go_back, done) and receives the resulting page as cleaned HTML.
//  4. Driver: the CDP client. PlaywrightDriver (default) and RodDriver
//     implement the same Page operations.
//
// # Limits
//
// The sub-agent stops after a fixed number of steps or after too many
// consecutive action failures. Page observations are cleaned of scripts,
// styles, and hidden elements and truncated to a token budget. Navigation
// can be restricted to an allowlist of URL globs with URLPolicy.
//
// # Credentials
//
// When a task mentions a trigger substring and credentials are configured,
// a block with the email and password is appended to the task. The block is
// never logged, and the top-level agent redacts the password from results.
package browser
