// Package tracking issues the human-shareable codes citizens use to follow
// their complaints. Codes are short, URL-safe, immutable once assigned, and
// globally unique.
package tracking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	codePrefix      = "GRV-"
	codeLength      = 8
	reservationKey  = "tracking-code:"
	reservationTTL  = 30 * 24 * time.Hour
	maxReservations = 5
)

// Generator produces tracking codes. When Redis is available, each code is
// reserved with SETNX so concurrent instances never hand out the same code;
// without Redis the database's unique constraint is the only guard and a
// collision surfaces on insert.
type Generator struct {
	client *redis.Client
	logger *zap.Logger
}

// NewGenerator builds a generator. client may be nil.
func NewGenerator(client *redis.Client, logger *zap.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

// Next returns a fresh tracking code.
func (g *Generator) Next(ctx context.Context) (string, error) {
	if g.client == nil {
		return randomCode(), nil
	}
	for attempt := 0; attempt < maxReservations; attempt++ {
		code := randomCode()
		reserved, err := g.client.SetNX(ctx, reservationKey+code, 1, reservationTTL).Result()
		if err != nil {
			g.logger.Warn("tracking code reservation unavailable, falling back to random code", zap.Error(err))
			return code, nil
		}
		if reserved {
			return code, nil
		}
	}
	// Five straight collisions on a 40-bit space means something is wrong
	// with the reservation store; hand out a random code anyway.
	g.logger.Warn("exhausted tracking code reservation attempts")
	return randomCode(), nil
}

func randomCode() string {
	return codePrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
}
