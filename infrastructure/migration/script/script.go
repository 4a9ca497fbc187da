// Script de importação de um arquivo JSON de clientes para o PostgreSQL.
// Uso: go run ./infrastructure/migration/script -file data/clients.json
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/client-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/client-manager-api/internal/config"
	"github.com/vfg2006/client-manager-api/internal/domain"
	"github.com/vfg2006/client-manager-api/pkg/log"
	"github.com/vfg2006/client-manager-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type storeFile struct {
	Clients []domain.RawClientRecord `json:"clients"`
}

type importResult struct {
	Imported int
	Existing int
	Sales    int
}

// readStoreFile lê o arquivo e normaliza os registros, ignorando os malformados
func readStoreFile(path string) ([]*domain.Client, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "erro ao ler %s", path)
	}

	var doc storeFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, errors.Wrapf(err, "erro ao decodificar %s", path)
	}

	clients := make([]*domain.Client, 0, len(doc.Clients))
	malformed := 0
	for i, raw := range doc.Clients {
		client, err := domain.NormalizeClient(raw, utils.NewClientID)
		if err != nil {
			logrus.WithError(err).WithField("index", i).Warn("Registro ignorado")
			malformed++
			continue
		}
		clients = append(clients, client)
	}

	return clients, malformed, nil
}

// importClients insere clientes e vendas em uma única transação.
// Clientes cujo ID já existe no banco são mantidos como estão, sem duplicar vendas.
func importClients(ctx context.Context, conn *postgres.Connection, clients []*domain.Client) (importResult, error) {
	var result importResult

	err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, client := range clients {
			insertSQL, args, err := squirrel.
				Insert("clients").
				Columns("id", "full_name", "email", "birth_date").
				Values(client.ID, client.FullName, client.Email, client.BirthDate).
				Suffix("ON CONFLICT (id) DO NOTHING").
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return errors.Wrap(err, "erro ao construir query de cliente")
			}

			res, err := tx.ExecContext(ctx, insertSQL, args...)
			if err != nil {
				return errors.Wrapf(err, "erro ao inserir cliente %s", client.ID)
			}

			affected, err := res.RowsAffected()
			if err != nil {
				return errors.Wrap(err, "erro ao obter linhas afetadas")
			}
			if affected == 0 {
				logrus.WithField("client_id", client.ID).Info("Cliente já existe, vendas não importadas")
				result.Existing++
				continue
			}

			if len(client.Sales) > 0 {
				salesInsert := squirrel.
					Insert("client_sales").
					Columns("client_id", "sale_date", "amount").
					PlaceholderFormat(squirrel.Dollar)
				for _, sale := range client.Sales {
					salesInsert = salesInsert.Values(client.ID, sale.Date, sale.Amount)
				}

				salesSQL, salesArgs, err := salesInsert.ToSql()
				if err != nil {
					return errors.Wrap(err, "erro ao construir query de vendas")
				}

				if _, err := tx.ExecContext(ctx, salesSQL, salesArgs...); err != nil {
					return errors.Wrapf(err, "erro ao inserir vendas do cliente %s", client.ID)
				}
			}

			result.Imported++
			result.Sales += len(client.Sales)
		}
		return nil
	})

	return result, err
}

func main() {
	log.Setup("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	file := flag.String("file", cfg.Storage.DataFile, "arquivo JSON de clientes a importar")
	dsn := flag.String("dsn", cfg.Database.DSN, "string de conexão do PostgreSQL")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logrus.WithField("file", *file).Info("Iniciando importação de clientes")

	clients, malformed, err := readStoreFile(*file)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao ler arquivo de clientes")
	}

	conn, err := postgres.NewConnection(ctx, config.Database{DSN: *dsn})
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	if err := conn.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar tabelas")
	}

	startTime := time.Now()
	result, err := importClients(ctx, conn, clients)
	if err != nil {
		logrus.WithError(err).Fatal("Importação cancelada, nenhuma alteração foi gravada")
	}

	logrus.WithFields(logrus.Fields{
		"imported":  result.Imported,
		"existing":  result.Existing,
		"sales":     result.Sales,
		"malformed": malformed,
		"duration":  time.Since(startTime).String(),
	}).Info("Importação concluída")
}
