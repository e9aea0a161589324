package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	perr "tmload/internal/platform/errors"
	"tmload/internal/platform/logger"
	"tmload/internal/services/importer/domain"
)

// writeDiagnostic persists one artifact per failed file so an operator can
// triage a run without trawling logs. Artifact problems are logged and
// dropped; diagnostics never fail an already failed file any harder
func writeDiagnostic(ctx context.Context, ictx *domain.ImportContext, path string, cause error) {
	if ictx.ErrorsDir == "" {
		return
	}
	if err := os.MkdirAll(ictx.ErrorsDir, 0o755); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("cannot create errors dir")
		return
	}

	d := perr.Diagnose(cause)
	var b strings.Builder
	fmt.Fprintf(&b, "time: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "run: %s\n", ictx.RunID)
	fmt.Fprintf(&b, "file: %s\n", path)
	fmt.Fprintf(&b, "classification: %s\n", d.Classification)
	fmt.Fprintf(&b, "error: %v\n", cause)
	if root := perr.Root(cause); root != nil && root.Error() != cause.Error() {
		fmt.Fprintf(&b, "cause: %v\n", root)
	}
	if d.SQLState != "" {
		fmt.Fprintf(&b, "sqlstate: %s\n", d.SQLState)
		if d.Detail != "" {
			fmt.Fprintf(&b, "detail: %s\n", d.Detail)
		}
		if d.Schema != "" {
			fmt.Fprintf(&b, "schema: %s\n", d.Schema)
		}
		if d.Table != "" {
			fmt.Fprintf(&b, "table: %s\n", d.Table)
		}
		if d.Column != "" {
			fmt.Fprintf(&b, "column: %s\n", d.Column)
		}
		if d.Constraint != "" {
			fmt.Fprintf(&b, "constraint: %s\n", d.Constraint)
		}
	}

	name := fmt.Sprintf("%s.%s.log", filepath.Base(path), ictx.RunID)
	if err := os.WriteFile(filepath.Join(ictx.ErrorsDir, name), []byte(b.String()), 0o644); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("cannot write diagnostic artifact")
	}
}
