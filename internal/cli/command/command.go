// Package command contains the cobra subcommand constructors.
package command

import (
	"errors"
	"log/slog"
	"os"

	"todoscan/internal/cli"
	"todoscan/internal/models"
	todoservice "todoscan/internal/services/todo"
)

// classifyServiceError maps a service error to its envelope code, exit code
// and suggestion. ok is false for errors the caller should propagate as-is.
// An unusable project root is unrecoverable and exits 1; everything below it
// is a per-resource failure with a more specific code.
func classifyServiceError(err error) (code string, exitCode int, suggestion string, ok bool) {
	var accessErr *models.AccessError
	var parseErr *models.ParseError
	var writeErr *models.WriteError

	switch {
	case errors.Is(err, todoservice.ErrRootUnavailable):
		return "ROOT_ERROR", cli.ExitError,
			"Check that --path points at an existing, readable directory", true
	case errors.Is(err, todoservice.ErrEntryNotFound):
		return "ENTRY_NOT_FOUND", cli.ExitNotFound,
			"Use 'todoscan list' to see entries and their line numbers", true
	case errors.As(err, &accessErr):
		return "FILE_NOT_FOUND", cli.ExitNotFound,
			"Check the path and make sure it is readable", true
	case errors.As(err, &parseErr):
		return "MALFORMED_BLOCK", cli.ExitDataErr,
			"Fix the block markers in the file and retry", true
	case errors.As(err, &writeErr):
		return "WRITE_ERROR", cli.ExitError, "", true
	case errors.Is(err, todoservice.ErrEmptyTask),
		errors.Is(err, todoservice.ErrTaskTooLong),
		errors.Is(err, todoservice.ErrInvalidLine),
		errors.Is(err, todoservice.ErrInvalidPath),
		errors.Is(err, todoservice.ErrAlreadyDone):
		return "VALIDATION_ERROR", cli.ExitValidation, "", true
	}
	return "", 0, "", false
}

// exitForServiceError reports err through the formatter and exits with the
// matching code. Unrecognized errors return for the caller to propagate.
func exitForServiceError(formatter *cli.OutputFormatter, err error) error {
	code, exitCode, suggestion, ok := classifyServiceError(err)
	if !ok {
		return err
	}
	reportError(formatter, code, err, suggestion)
	os.Exit(exitCode)
	return err
}

func reportError(formatter *cli.OutputFormatter, code string, err error, suggestion string) {
	if fmtErr := formatter.ErrorWithSuggestion(code, err.Error(), suggestion); fmtErr != nil {
		slog.Error("Error formatting error message", "error", fmtErr)
	}
}
