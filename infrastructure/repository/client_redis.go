package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/client-manager-api/internal/domain"
)

// maxWatchRetries limita as tentativas quando outra conexão altera o cliente durante o WATCH
const maxWatchRetries = 5

type clientRedisRepository struct {
	client   *redis.Client
	hashKey  string
	orderKey string
}

// NewClientRedisRepository guarda cada cliente como JSON em um hash e a ordem de inserção em uma lista.
func NewClientRedisRepository(client *redis.Client, prefix string) ClientRepository {
	return &clientRedisRepository{
		client:   client,
		hashKey:  prefix + ":clients",
		orderKey: prefix + ":clients:order",
	}
}

func (r *clientRedisRepository) encode(client *domain.Client) (string, error) {
	data, err := json.Marshal(domain.DenormalizeClient(client))
	if err != nil {
		return "", errors.Wrapf(err, "erro ao codificar cliente %s", client.ID)
	}
	return string(data), nil
}

func (r *clientRedisRepository) decode(id, payload string) (*domain.Client, error) {
	var raw domain.RawClientRecord
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, errors.Wrapf(err, "erro ao decodificar cliente %s", id)
	}

	return domain.NormalizeClient(raw, func() string { return id })
}

// fetch busca os clientes na ordem dos IDs informados, ignorando entradas ausentes ou malformadas
func (r *clientRedisRepository) fetch(ctx context.Context, ids []string) ([]*domain.Client, error) {
	clients := make([]*domain.Client, 0, len(ids))
	if len(ids) == 0 {
		return clients, nil
	}

	values, err := r.client.HMGet(ctx, r.hashKey, ids...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar clientes no redis")
	}

	for i, value := range values {
		payload, ok := value.(string)
		if !ok {
			continue
		}

		client, err := r.decode(ids[i], payload)
		if err != nil {
			logrus.WithError(err).WithField("client_id", ids[i]).Warn("Registro de cliente ignorado no redis")
			continue
		}
		clients = append(clients, client)
	}

	return clients, nil
}

func (r *clientRedisRepository) List(ctx context.Context, page, limit int) (*domain.ClientPage, error) {
	total, err := r.client.LLen(ctx, r.orderKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao contar clientes no redis")
	}

	start := int64(domain.PageOffset(page, limit))
	clients := []*domain.Client{}
	if start < total {
		ids, err := r.client.LRange(ctx, r.orderKey, start, start+int64(limit)-1).Result()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao listar IDs de clientes")
		}

		clients, err = r.fetch(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	totalPages := 0
	if limit > 0 {
		totalPages = (int(total) + limit - 1) / limit
	}

	return &domain.ClientPage{
		Data:       clients,
		Total:      int(total),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (r *clientRedisRepository) ListAll(ctx context.Context) ([]*domain.Client, error) {
	ids, err := r.client.LRange(ctx, r.orderKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar IDs de clientes")
	}

	return r.fetch(ctx, ids)
}

func (r *clientRedisRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	payload, err := r.client.HGet(ctx, r.hashKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar cliente %s", id)
	}

	return r.decode(id, payload)
}

func (r *clientRedisRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	payload, err := r.encode(client)
	if err != nil {
		return nil, err
	}

	created, err := r.client.HSetNX(ctx, r.hashKey, client.ID, payload).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao gravar cliente %s", client.ID)
	}
	if !created {
		return nil, errors.Wrapf(ErrClientAlreadyExists, "id %s", client.ID)
	}

	if err := r.client.RPush(ctx, r.orderKey, client.ID).Err(); err != nil {
		// MULTI/EXEC não desfaz comandos que falham em execução, então o hash é limpo aqui
		if delErr := r.client.HDel(context.WithoutCancel(ctx), r.hashKey, client.ID).Err(); delErr != nil {
			logrus.WithError(delErr).WithField("client_id", client.ID).Error("Falha ao desfazer cliente sem ordem no redis")
		}
		return nil, errors.Wrapf(err, "erro ao registrar ordem do cliente %s", client.ID)
	}

	return client.Clone(), nil
}

// modify lê, altera e regrava um cliente sob WATCH, repetindo quando houver escrita concorrente
func (r *clientRedisRepository) modify(ctx context.Context, id string, change func(*domain.Client)) (*domain.Client, error) {
	var result *domain.Client

	txf := func(tx *redis.Tx) error {
		result = nil

		payload, err := tx.HGet(ctx, r.hashKey, id).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}

		client, err := r.decode(id, payload)
		if err != nil {
			return err
		}

		change(client)

		encoded, err := r.encode(client)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.hashKey, id, encoded)
			return nil
		})
		if err != nil {
			return err
		}

		result = client
		return nil
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, txf, r.hashKey)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, errors.Wrapf(err, "erro ao atualizar cliente %s", id)
	}

	return nil, errors.Errorf("cliente %s alterado concorrentemente, tentativas esgotadas", id)
}

func (r *clientRedisRepository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	return r.modify(ctx, client.ID, func(stored *domain.Client) {
		stored.FullName = client.FullName
		stored.Email = client.Email
		stored.BirthDate = client.BirthDate
	})
}

func (r *clientRedisRepository) Delete(ctx context.Context, id string) (bool, error) {
	var removed *redis.IntCmd

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, r.hashKey, id)
		pipe.LRem(ctx, r.orderKey, 0, id)
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "erro ao remover cliente %s", id)
	}

	return removed.Val() > 0, nil
}

func (r *clientRedisRepository) AppendSale(ctx context.Context, id string, sale domain.Sale) (*domain.Client, error) {
	return r.modify(ctx, id, func(stored *domain.Client) {
		stored.AppendSale(sale)
	})
}

func (r *clientRedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
