// Package router turns free-text questions into typed query engine calls.
//
// Four intents are recognized, tried in this order, ignoring case:
//
//	balance       "... balance ... client <id> ... year <yyyy>"
//	transactions  "... transactions ... client <id> ... year <yyyy>"
//	category      "client reports for <text>" or "show all transactions related to <text>"
//	average       "average transaction", "mean transaction amount" or "typical transaction value"
//
// Client IDs and years are taken from the prompt as typed. Category text is
// lower-cased so that differently cased questions share one cache entry.
package router
