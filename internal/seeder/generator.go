package seeder

import "github.com/Lumos-Labs-HQ/edutech-seed/internal/logger"

// Generator owns the per-run randomness and the stage implementations.
type Generator struct {
	data *DataGenerator
	dist Distribution
	pool []CategorySeed
	log  *logger.Logger
}

func NewGenerator(data *DataGenerator, dist Distribution, pool []CategorySeed, log *logger.Logger) *Generator {
	if pool == nil {
		pool = defaultCategoryPool
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{data: data, dist: dist, pool: pool, log: log}
}

// emailAttemptsPerRecord bounds rejection sampling for unique emails.
const emailAttemptsPerRecord = 50
