package backup

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/application/service"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/logger"
)

const Folder = "backups/database"

// Dumper produces a database dump.
type Dumper interface {
	Dump(ctx context.Context) ([]byte, error)
}

// PgDump shells out to pg_dump in custom format.
type PgDump struct {
	DSN string
}

func (d PgDump) Dump(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "pg_dump", "--dbname="+d.DSN, "--format=c")

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pg_dump: %w: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

type BackupUseCase struct {
	dumper Dumper
	store  service.ObjectStore
	logger logger.Logger
	now    func() time.Time
}

func NewBackupUseCase(dumper Dumper, store service.ObjectStore, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		dumper: dumper,
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

type BackupOutput struct {
	Object string
	URL    string
	Bytes  int
}

func (uc *BackupUseCase) Execute(ctx context.Context) (*BackupOutput, error) {
	uc.logger.Info("Starting database backup...")

	dump, err := uc.dumper.Dump(ctx)
	if err != nil {
		uc.logger.Error("Database dump failed", err)
		return nil, apperror.NewInternal("database dump failed", err)
	}

	timestamp := uc.now().UTC().Format("2006-01-02_15-04-05")
	object := path.Join(Folder, fmt.Sprintf("backup-%s.dump", timestamp))

	url, err := uc.store.Upload(ctx, bytes.NewReader(dump), object)
	if err != nil {
		uc.logger.Error("Failed to upload backup", err, zap.String("object", object))
		return nil, apperror.NewInternal("failed to upload backup", err)
	}

	uc.logger.Info("Database backup completed and uploaded successfully",
		zap.String("url", url),
		zap.String("object", object),
		zap.Int("bytes", len(dump)),
	)
	return &BackupOutput{Object: object, URL: url, Bytes: len(dump)}, nil
}
