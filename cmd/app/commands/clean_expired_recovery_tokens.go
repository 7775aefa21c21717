package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/voltpass/volt/internal/app"
	authUsecase "github.com/voltpass/volt/internal/auth/usecase"
	"github.com/voltpass/volt/internal/config"
)

// RunCleanExpiredRecoveryTokens deletes recovery tokens past their expiry.
// Used tokens are kept until they expire so replay attempts stay detectable.
func RunCleanExpiredRecoveryTokens(ctx context.Context, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	tokenRepo, err := container.RecoveryTokenRepository()
	if err != nil {
		return fmt.Errorf("failed to initialize recovery token repository: %w", err)
	}

	return cleanExpiredRecoveryTokens(ctx, tokenRepo, logger, os.Stdout, format)
}

// cleanExpiredRecoveryTokens performs the deletion and writes the result to
// the given writer.
func cleanExpiredRecoveryTokens(
	ctx context.Context,
	tokenRepo authUsecase.RecoveryTokenRepository,
	logger *slog.Logger,
	out io.Writer,
	format string,
) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	logger.Info("cleaning expired recovery tokens")

	count, err := tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired recovery tokens: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{"count": count}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))
	} else {
		fmt.Fprintf(out, "Successfully deleted %d expired recovery token(s)\n", count)
	}

	logger.Info("cleanup completed", slog.Int64("count", count))

	return nil
}
