package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/client-manager-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// clientDocument é o conteúdo do arquivo de dados
type clientDocument struct {
	Clients []domain.RawClientRecord `json:"clients"`
}

type clientFileRepository struct {
	path  string
	newID func() string
	mu    sync.Mutex

	// registros malformados da última leitura; são regravados intactos no final do arquivo
	skipped []domain.RawClientRecord
}

// NewClientFileRepository cria um repositório que guarda todos os clientes em um único arquivo JSON.
// O arquivo é lido a cada operação e reescrito por completo a cada alteração.
func NewClientFileRepository(path string, newID func() string) ClientRepository {
	return &clientFileRepository{
		path:  path,
		newID: newID,
	}
}

// load lê e normaliza o arquivo. Registros sem ID recebem um novo ID e o arquivo é regravado.
func (r *clientFileRepository) load() ([]*domain.Client, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Client{}, nil
		}
		return nil, errors.Wrapf(err, "erro ao ler arquivo de clientes %s", r.path)
	}

	var doc clientDocument
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "erro ao decodificar arquivo de clientes %s", r.path)
		}
	}

	clients := make([]*domain.Client, 0, len(doc.Clients))
	r.skipped = nil
	repaired := false
	for i, raw := range doc.Clients {
		client, err := domain.NormalizeClient(raw, r.newID)
		if err != nil {
			logrus.WithError(err).WithField("index", i).Warn("Registro de cliente ignorado no arquivo de dados")
			r.skipped = append(r.skipped, raw)
			continue
		}
		if raw.ID == "" {
			repaired = true
		}
		clients = append(clients, client)
	}

	if repaired {
		logrus.WithField("path", r.path).Info("Gravando IDs gerados para clientes sem identificador")
		if err := r.save(clients); err != nil {
			return nil, err
		}
	}

	return clients, nil
}

// save grava em um arquivo temporário no mesmo diretório e renomeia sobre o original
func (r *clientFileRepository) save(clients []*domain.Client) error {
	doc := clientDocument{Clients: make([]domain.RawClientRecord, 0, len(clients)+len(r.skipped))}
	for _, client := range clients {
		doc.Clients = append(doc.Clients, domain.DenormalizeClient(client))
	}
	doc.Clients = append(doc.Clients, r.skipped...)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao codificar clientes")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "erro ao criar diretório %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".clients-*.json")
	if err != nil {
		return errors.Wrap(err, "erro ao criar arquivo temporário")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "erro ao gravar arquivo temporário")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "erro ao fechar arquivo temporário")
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "erro ao substituir arquivo de clientes %s", r.path)
	}

	return nil
}

func indexOf(clients []*domain.Client, id string) int {
	for i, client := range clients {
		if client.ID == id {
			return i
		}
	}
	return -1
}

func (r *clientFileRepository) List(_ context.Context, page, limit int) (*domain.ClientPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.load()
	if err != nil {
		return nil, err
	}

	return domain.NewClientPage(clients, page, limit), nil
}

func (r *clientFileRepository) ListAll(_ context.Context) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

func (r *clientFileRepository) GetByID(_ context.Context, id string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.load()
	if err != nil {
		return nil, err
	}

	if i := indexOf(clients, id); i >= 0 {
		return clients[i], nil
	}

	return nil, nil
}

func (r *clientFileRepository) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.load()
	if err != nil {
		return nil, err
	}

	if indexOf(clients, client.ID) >= 0 {
		return nil, errors.Wrapf(ErrClientAlreadyExists, "id %s", client.ID)
	}

	created := client.Clone()
	clients = append(clients, created)

	if err := r.save(clients); err != nil {
		return nil, err
	}

	return created, nil
}

func (r *clientFileRepository) Update(_ context.Context, client *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.load()
	if err != nil {
		return nil, err
	}

	i := indexOf(clients, client.ID)
	if i < 0 {
		return nil, nil
	}

	updated := clients[i]
	updated.FullName = client.FullName
	updated.Email = client.Email
	updated.BirthDate = client.BirthDate

	if err := r.save(clients); err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *clientFileRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.load()
	if err != nil {
		return false, err
	}

	i := indexOf(clients, id)
	if i < 0 {
		return false, nil
	}

	clients = append(clients[:i], clients[i+1:]...)
	if err := r.save(clients); err != nil {
		return false, err
	}

	return true, nil
}

func (r *clientFileRepository) AppendSale(_ context.Context, id string, sale domain.Sale) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.load()
	if err != nil {
		return nil, err
	}

	i := indexOf(clients, id)
	if i < 0 {
		return nil, nil
	}

	clients[i].AppendSale(sale)
	if err := r.save(clients); err != nil {
		return nil, err
	}

	return clients[i], nil
}

// Ping verifica se o diretório do arquivo de dados está acessível
func (r *clientFileRepository) Ping(_ context.Context) error {
	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dir, 0o755)
		}
		return errors.Wrapf(err, "diretório de dados inacessível %s", dir)
	}

	if !info.IsDir() {
		return errors.Errorf("%s não é um diretório", dir)
	}

	return nil
}
