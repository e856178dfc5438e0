package model

// systemPrompt is sent with API clients; the Claude CLI gets the same framing
// from the prompt body.
const systemPrompt = "You are a Test-Driven Development reviewer. Judge the proposed change only against the rules in the user message and answer with the requested JSON object."
