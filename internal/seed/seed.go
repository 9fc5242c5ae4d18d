// Package seed loads the fixed startup catalog into a store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gamezone/portal/internal/models"
	"github.com/gamezone/portal/internal/store"
)

//go:embed seed.yaml
var seedYAML []byte

// MaxCommentAgeDays bounds how far back seeded comment dates go (exclusive).
const MaxCommentAgeDays = 14

type fixture struct {
	Games []gameFixture `yaml:"games"`
}

type gameFixture struct {
	models.Game `yaml:",inline"`
	Comments    []commentFixture `yaml:"comments"`
}

type commentFixture struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
	Likes   int    `yaml:"likes"`
}

// Options control the parts of seeding that depend on when and how it runs.
type Options struct {
	// Now anchors comment dates. Zero means time.Now().
	Now time.Time
	// Rand picks each comment's age in whole days. Nil means a time-seeded source.
	Rand *rand.Rand
}

// Result reports what Load inserted.
type Result struct {
	Games    int
	Comments int
}

// Games returns the seed games without ids, in file order.
func Games() ([]models.Game, error) {
	f, err := parse()
	if err != nil {
		return nil, err
	}
	games := make([]models.Game, 0, len(f.Games))
	for _, g := range f.Games {
		games = append(games, g.Game.Clone())
	}
	return games, nil
}

// Load inserts every seed game, then every seed comment with a date between
// Now and MaxCommentAgeDays-1 days earlier.
func Load(ctx context.Context, st store.Store, opts Options) (Result, error) {
	f, err := parse()
	if err != nil {
		return Result{}, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var res Result
	ids := make([]int64, len(f.Games))
	for i, g := range f.Games {
		created, err := st.InsertGame(ctx, g.Game)
		if err != nil {
			return res, fmt.Errorf("seed game %q: %w", g.Title, err)
		}
		ids[i] = created.ID
		res.Games++
	}

	for i, g := range f.Games {
		for _, c := range g.Comments {
			age := rng.Intn(MaxCommentAgeDays)
			_, err := st.InsertComment(ctx, models.Comment{
				GameID:  ids[i],
				Author:  c.Author,
				Content: c.Content,
				Date:    now.AddDate(0, 0, -age).UTC(),
				Likes:   c.Likes,
			})
			if err != nil {
				return res, fmt.Errorf("seed comment by %q: %w", c.Author, err)
			}
			res.Comments++
		}
	}
	return res, nil
}

func parse() (fixture, error) {
	var f fixture
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return fixture{}, fmt.Errorf("parse seed catalog: %w", err)
	}
	return f, nil
}
