package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/client-manager-api/infrastructure/repository"
	"github.com/vfg2006/client-manager-api/internal/config"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"github.com/vfg2006/client-manager-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	backupTimestampLayout = "20060102-150405"
	backupSuffixSize      = 8
)

// StoreBackupConfig representa a configuração do agendador de backup
type StoreBackupConfig struct {
	CronSchedule string
	Enabled      bool
	Dir          string
}

// backupDocument segue o mesmo formato do arquivo de dados, para que um backup possa ser usado como DATA_FILE
type backupDocument struct {
	Clients []domain.RawClientRecord `json:"clients"`
}

// StoreBackupService grava periodicamente uma cópia de todos os clientes em JSON
type StoreBackupService struct {
	scheduler             *gocron.Scheduler
	config                StoreBackupConfig
	clientRepo            repository.ClientRepository
	now                   func() time.Time
	syncRunning           bool
	syncMutex             sync.Mutex
	lastSyncStartedAt     time.Time
	lastSyncCompletedAt   time.Time
	lastBackupFile        string
	lastBackupClientCount int
	lastError             string
}

func NewStoreBackupService(clientRepo repository.ClientRepository, appConfig *config.Config) *StoreBackupService {
	backupConfig := StoreBackupConfig{
		CronSchedule: appConfig.StoreBackup.CronSchedule,
		Enabled:      appConfig.StoreBackup.Enabled,
		Dir:          appConfig.StoreBackup.Dir,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": backupConfig.CronSchedule,
		"enabled":       backupConfig.Enabled,
		"dir":           backupConfig.Dir,
	}).Info("Configuração do agendador de backup carregada")

	return &StoreBackupService{
		scheduler:  gocron.NewScheduler(time.Local),
		config:     backupConfig,
		clientRepo: clientRepo,
		now:        time.Now,
	}
}

// Start inicia o agendador
func (s *StoreBackupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Backup de clientes desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de backup de clientes")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runBackup(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar backup de clientes: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de backup de clientes")
		s.scheduler.Stop()
	}()

	return nil
}

// runBackup executa um backup, ignorando a chamada se outro já estiver em andamento
func (s *StoreBackupService) runBackup(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Backup de clientes já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	startTime := time.Now()
	path, count, err := s.Backup(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).WithField("job", "backup").Error("Erro ao gerar backup de clientes")
		return
	}

	s.lastError = ""
	s.lastBackupFile = path
	s.lastBackupClientCount = count
	s.lastSyncCompletedAt = s.now()

	logrus.WithFields(logrus.Fields{
		"job":      "backup",
		"file":     path,
		"clients":  count,
		"duration": time.Since(startTime).String(),
	}).Info("Backup de clientes concluído")
}

// Backup grava todos os clientes em um novo arquivo e retorna o caminho e a quantidade de clientes
func (s *StoreBackupService) Backup(ctx context.Context) (string, int, error) {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("erro ao carregar clientes: %w", err)
	}

	doc := backupDocument{Clients: make([]domain.RawClientRecord, 0, len(clients))}
	for _, client := range clients {
		doc.Clients = append(doc.Clients, domain.DenormalizeClient(client))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("erro ao codificar backup: %w", err)
	}

	if err := os.MkdirAll(s.config.Dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("erro ao criar diretório de backup %s: %w", s.config.Dir, err)
	}

	suffix, err := utils.GenerateID(backupSuffixSize)
	if err != nil {
		return "", 0, fmt.Errorf("erro ao gerar sufixo do backup: %w", err)
	}

	name := fmt.Sprintf("clients-%s-%s.json", s.now().Format(backupTimestampLayout), suffix)
	path := filepath.Join(s.config.Dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("erro ao gravar backup %s: %w", path, err)
	}

	return path, len(clients), nil
}

// TriggerManualSync inicia um backup em segundo plano. Retorna false se já houver um em andamento.
func (s *StoreBackupService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Backup de clientes já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando backup manual de clientes")
	go s.runBackup(context.Background())

	return true
}

// GetStatus retorna o status atual do backup
func (s *StoreBackupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.Enabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_backup_file":       s.lastBackupFile,
		"last_backup_clients":    s.lastBackupClientCount,
		"last_error":             s.lastError,
	}
}
