package seeder

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var (
	firstNames = []string{
		"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry",
		"Isabel", "Jorge", "Karen", "Lucas", "Marina", "Nathan", "Olivia", "Paulo", "Rafaela", "Tiago",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Silva", "Souza", "Costa", "Almeida", "Ferreira", "Carvalho",
	}
	emailDomains = []string{"example.com", "test.com", "demo.com", "mail.com"}
	words        = []string{
		"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
		"query", "index", "schema", "cloud", "pipeline", "cache", "stream", "vector",
		"kernel", "socket", "cluster", "router", "service", "module", "lambda", "token",
	}
	sentences = []string{
		"This is a sample text generated for testing purposes.",
		"Software development requires careful planning and execution.",
		"Database design is crucial for application performance.",
		"Practice every concept with small, focused exercises.",
		"Each lesson builds on the ideas introduced before it.",
		"Real projects make abstract topics easier to remember.",
		"Good tooling shortens the feedback loop considerably.",
	}
)

// DataGenerator produces synthetic values from a single seeded source so a
// run can be reproduced from its seed.
type DataGenerator struct {
	rand *rand.Rand
	now  time.Time
}

func NewDataGenerator(seed int64, now time.Time) *DataGenerator {
	return &DataGenerator{
		rand: rand.New(rand.NewSource(seed)),
		now:  now,
	}
}

func (g *DataGenerator) Now() time.Time {
	return g.now
}

// Today is the run's date at midnight.
func (g *DataGenerator) Today() time.Time {
	y, m, d := g.now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, g.now.Location())
}

// IntBetween returns a uniform integer in [min, max].
func (g *DataGenerator) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}

func (g *DataGenerator) Float64() float64 {
	return g.rand.Float64()
}

// DaysAgo returns a moment between now and maxDays days before it.
func (g *DataGenerator) DaysAgo(maxDays int) time.Time {
	return g.now.AddDate(0, 0, -g.IntBetween(0, maxDays))
}

func pick[T any](g *DataGenerator, items []T) T {
	return items[g.rand.Intn(len(items))]
}

func shuffle[T any](g *DataGenerator, items []T) {
	g.rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// sample picks k distinct items without replacement.
func sample[T any](g *DataGenerator, items []T, k int) []T {
	idx := g.rand.Perm(len(items))[:k]
	out := make([]T, k)
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

func (g *DataGenerator) Name() string {
	return pick(g, firstNames) + " " + pick(g, lastNames)
}

// Email derives an address from a person's name. Collisions are possible and
// are resolved by the caller's allocator.
func (g *DataGenerator) Email(name string) string {
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return fmt.Sprintf("%s%d@%s", local, g.rand.Intn(1000), pick(g, emailDomains))
}

func (g *DataGenerator) Word() string {
	return pick(g, words)
}

// Title capitalizes a random word.
func (g *DataGenerator) Title() string {
	w := g.Word()
	return strings.ToUpper(w[:1]) + w[1:]
}

// Sentence builds a sentence of n random words.
func (g *DataGenerator) Sentence(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.Word()
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// Text joins canned sentences up to maxChars.
func (g *DataGenerator) Text(maxChars int) string {
	var b strings.Builder
	for {
		next := pick(g, sentences)
		if b.Len() > 0 && b.Len()+1+len(next) > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(next)
		if b.Len() >= maxChars {
			break
		}
	}
	s := b.String()
	if len(s) > maxChars {
		s = s[:maxChars]
	}
	return s
}
