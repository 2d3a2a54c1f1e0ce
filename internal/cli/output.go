package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// OutputFormatter routes command results to one of three modes: a JSON
// envelope for agents, minimal lines for shell capture, or styled
// human-readable text rendered by the command itself.
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// Result carries one command's output for every mode. QuietLines are the
// minimal --quiet lines (entry IDs, counts); Fields become the --json
// envelope alongside "success": true; Human renders the styled default.
type Result struct {
	QuietLines []string
	Fields     map[string]interface{}
	Human      func()
}

// Emit writes the result in the formatter's active mode.
func (f *OutputFormatter) Emit(res Result) error {
	if f.Quiet {
		for _, line := range res.QuietLines {
			fmt.Println(line)
		}
		return nil
	}

	if f.JSON {
		envelope := make(map[string]interface{}, len(res.Fields)+1)
		envelope["success"] = true
		for k, v := range res.Fields {
			envelope[k] = v
		}
		return json.NewEncoder(os.Stdout).Encode(envelope)
	}

	if res.Human != nil {
		res.Human()
	}
	return nil
}

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		return json.NewEncoder(os.Stdout).Encode(errorEnvelope{
			Success: false,
			Error:   errorBody{Code: code, Message: message, Suggestion: suggestion},
		})
	}

	fmt.Fprintf(os.Stderr, "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}
