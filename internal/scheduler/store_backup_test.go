package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/client-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newBackupService(t *testing.T) (*StoreBackupService, *mocks.MockClientRepository, string) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockClientRepository(ctrl)
	dir := filepath.Join(t.TempDir(), "backups")

	service := &StoreBackupService{
		config:     StoreBackupConfig{CronSchedule: "0 2 * * *", Enabled: true, Dir: dir},
		clientRepo: repo,
		now: func() time.Time {
			return time.Date(2024, 1, 16, 2, 0, 5, 0, time.UTC)
		},
	}

	return service, repo, dir
}

func TestStoreBackupService_Backup(t *testing.T) {
	service, repo, dir := newBackupService(t)

	repo.EXPECT().ListAll(gomock.Any()).Return([]*domain.Client{
		{
			ID:        "ana",
			FullName:  "Ana Beatriz",
			Email:     "ana@example.com",
			BirthDate: "1992-05-01",
			Sales:     []domain.Sale{{Date: "2024-01-01", Amount: 150}},
		},
	}, nil)

	path, count, err := service.Backup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, regexp.MustCompile(`^clients-20240116-020005-[A-Za-z0-9]{8}\.json$`), filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc backupDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Clients, 1)

	client, err := domain.NormalizeClient(doc.Clients[0], func() string { return "" })
	require.NoError(t, err)
	assert.Equal(t, "ana", client.ID)
	assert.Equal(t, "Ana Beatriz", client.FullName)
	assert.Equal(t, []domain.Sale{{Date: "2024-01-01", Amount: 150}}, client.Sales)
}

func TestStoreBackupService_BackupRepositoryError(t *testing.T) {
	service, repo, dir := newBackupService(t)

	repo.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("conexão recusada"))

	_, _, err := service.Backup(context.Background())

	assert.Error(t, err)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStoreBackupService_RunBackupUpdatesStatus(t *testing.T) {
	service, repo, _ := newBackupService(t)

	repo.EXPECT().ListAll(gomock.Any()).Return([]*domain.Client{}, nil)

	service.runBackup(context.Background())

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, 0, status["last_backup_clients"])
	assert.NotEmpty(t, status["last_backup_file"])
	assert.Equal(t, "", status["last_error"])
}

func TestStoreBackupService_RunBackupSkipsWhenRunning(t *testing.T) {
	service, _, _ := newBackupService(t)
	service.syncRunning = true

	// nenhuma chamada ao repositório é esperada
	service.runBackup(context.Background())
	assert.False(t, service.TriggerManualSync())

	assert.Equal(t, true, service.GetStatus()["sync_running"])
}

func TestStoreBackupService_RunBackupRecordsError(t *testing.T) {
	service, repo, _ := newBackupService(t)

	repo.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("timeout"))

	service.runBackup(context.Background())

	status := service.GetStatus()
	assert.Contains(t, status["last_error"], "timeout")
	assert.Equal(t, "", status["last_backup_file"])
}

func TestStoreBackupService_StartDisabled(t *testing.T) {
	service, _, _ := newBackupService(t)
	service.config.Enabled = false

	assert.NoError(t, service.Start(context.Background()))
}
