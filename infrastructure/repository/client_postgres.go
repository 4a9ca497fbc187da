package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/client-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/client-manager-api/internal/domain"
)

const (
	clientsTable     = "clients"
	clientSalesTable = "client_sales"

	// uniqueViolation é o código do Postgres para chave duplicada
	uniqueViolation = "23505"
)

var clientColumns = []string{"id", "full_name", "email", "birth_date"}

type clientPostgresRepository struct {
	conn *postgres.Connection
}

func NewClientPostgresRepository(conn *postgres.Connection) ClientRepository {
	return &clientPostgresRepository{
		conn: conn,
	}
}

func (r *clientPostgresRepository) List(ctx context.Context, page, limit int) (*domain.ClientPage, error) {
	var total int
	countSQL, countArgs, err := squirrel.Select("COUNT(*)").From(clientsTable).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de contagem")
	}

	if err := r.conn.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, errors.Wrap(err, "erro ao contar clientes")
	}

	query := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		OrderBy("position ASC").
		Limit(uint64(limit)).
		Offset(uint64(domain.PageOffset(page, limit))).
		PlaceholderFormat(squirrel.Dollar)

	clients, err := r.queryClients(ctx, r.conn, query)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &domain.ClientPage{
		Data:       clients,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (r *clientPostgresRepository) ListAll(ctx context.Context) ([]*domain.Client, error) {
	query := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryClients(ctx, r.conn, query)
}

func (r *clientPostgresRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.getByID(ctx, r.conn, id)
}

func (r *clientPostgresRepository) getByID(ctx context.Context, q postgres.Queryer, id string) (*domain.Client, error) {
	query := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	clients, err := r.queryClients(ctx, q, query)
	if err != nil {
		return nil, err
	}

	if len(clients) == 0 {
		return nil, nil
	}

	return clients[0], nil
}

// queryClients executa a query de clientes e carrega as vendas de todos eles em uma segunda consulta
func (r *clientPostgresRepository) queryClients(ctx context.Context, q postgres.Queryer, query squirrel.SelectBuilder) ([]*domain.Client, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a query de clientes")
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	byID := make(map[string]*domain.Client)
	for rows.Next() {
		client := &domain.Client{Sales: []domain.Sale{}}
		if err := rows.Scan(&client.ID, &client.FullName, &client.Email, &client.BirthDate); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear cliente")
		}
		clients = append(clients, client)
		byID[client.ID] = client
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de clientes")
	}

	if len(clients) == 0 {
		return clients, nil
	}

	if err := r.loadSales(ctx, q, byID); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientPostgresRepository) loadSales(ctx context.Context, q postgres.Queryer, byID map[string]*domain.Client) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	sqlQuery, args, err := squirrel.
		Select("client_id", "sale_date", "amount").
		From(clientSalesTable).
		Where(squirrel.Eq{"client_id": ids}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query de vendas")
	}

	rows, err := q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return errors.Wrap(err, "erro ao executar a query de vendas")
	}
	defer rows.Close()

	for rows.Next() {
		var clientID string
		var sale domain.Sale
		if err := rows.Scan(&clientID, &sale.Date, &sale.Amount); err != nil {
			return errors.Wrap(err, "erro ao escanear venda")
		}

		if client, ok := byID[clientID]; ok {
			client.AppendSale(sale)
		}
	}

	return errors.Wrap(rows.Err(), "erro durante a iteração de vendas")
}

func (r *clientPostgresRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := r.getByID(ctx, tx, client.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.Wrapf(ErrClientAlreadyExists, "id %s", client.ID)
		}

		insertSQL, args, err := squirrel.
			Insert(clientsTable).
			Columns(clientColumns...).
			Values(client.ID, client.FullName, client.Email, client.BirthDate).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "erro ao construir query de inserção")
		}

		if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
				return errors.Wrapf(ErrClientAlreadyExists, "id %s", client.ID)
			}
			return errors.Wrap(err, "erro ao inserir cliente")
		}

		for _, sale := range client.Sales {
			if err := insertSale(ctx, tx, client.ID, sale); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return client.Clone(), nil
}

func insertSale(ctx context.Context, q postgres.Queryer, clientID string, sale domain.Sale) error {
	insertSQL, args, err := squirrel.
		Insert(clientSalesTable).
		Columns("client_id", "sale_date", "amount").
		Values(clientID, sale.Date, sale.Amount).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de venda")
	}

	if _, err := q.ExecContext(ctx, insertSQL, args...); err != nil {
		return errors.Wrapf(err, "erro ao inserir venda do cliente %s", clientID)
	}

	return nil
}

func (r *clientPostgresRepository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	updateSQL, args, err := squirrel.
		Update(clientsTable).
		Set("full_name", client.FullName).
		Set("email", client.Email).
		Set("birth_date", client.BirthDate).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": client.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir query de atualização")
	}

	result, err := r.conn.ExecContext(ctx, updateSQL, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao atualizar cliente")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao obter linhas afetadas")
	}

	if affected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, client.ID)
}

func (r *clientPostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleteSQL, args, err := squirrel.
		Delete(clientsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "erro ao construir query de remoção")
	}

	result, err := r.conn.ExecContext(ctx, deleteSQL, args...)
	if err != nil {
		return false, errors.Wrap(err, "erro ao remover cliente")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "erro ao obter linhas afetadas")
	}

	return affected > 0, nil
}

func (r *clientPostgresRepository) AppendSale(ctx context.Context, id string, sale domain.Sale) (*domain.Client, error) {
	var updated *domain.Client

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)", id).Scan(&exists)
		if err != nil {
			return errors.Wrap(err, "erro ao verificar cliente")
		}
		if !exists {
			return nil
		}

		if err := insertSale(ctx, tx, id, sale); err != nil {
			return err
		}

		updated, err = r.getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *clientPostgresRepository) Ping(ctx context.Context) error {
	return r.conn.Ping(ctx)
}
