package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/okian/squadrank/internal/adapters/fbref"
	"github.com/okian/squadrank/internal/adapters/transfermarkt"
	"github.com/okian/squadrank/internal/adapters/worker"
	"github.com/okian/squadrank/internal/domain/enrich"
	"github.com/okian/squadrank/internal/domain/table"
	"github.com/okian/squadrank/pkg/logger"
	"github.com/okian/squadrank/pkg/metrics"
)

// Source is one saved squad page.
type Source struct {
	Path   string
	Club   string
	League string
}

// Sources lists the saved pages a collect run reads.
type Sources struct {
	FBref         []Source
	Transfermarkt []Source
	// ProfilesDir holds saved FBref player pages; empty skips profiles.
	ProfilesDir string
}

func parseFile[T any](path string, parse func(f *os.File) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()
	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Collect builds the flat input table from saved pages: FBref squad tables
// stacked on a Club column, joined with FBref profile fields and Transfermarkt
// squad rows on player identity. Without FBref pages the Transfermarkt rows
// are the base table.
func (s *Service) Collect(ctx context.Context, src Sources) (*table.Table, error) {
	log := s.log().Named("collect")
	pool := worker.NewPool(
		worker.WithWorkers(s.workers),
		worker.WithName("collect"),
		worker.WithLogger(log),
	)
	log.Debug(ctx, "collect started",
		logger.Int("fbref_pages", len(src.FBref)),
		logger.Int("transfermarkt_pages", len(src.Transfermarkt)),
		logger.Int("workers", pool.Workers()),
	)
	var (
		squads  []*table.Table
		records []enrich.Record
	)

	for _, p := range src.FBref {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		squad, err := parseFile(p.Path, func(f *os.File) (*fbref.Squad, error) {
			return fbref.ParseSquad(f, p.Club)
		})
		if err != nil {
			metrics.RecordError("collect", "fbref_squad")
			return nil, err
		}
		squads = append(squads, squad.Table)
		profiles := 0
		for i, res := range worker.Do(ctx, pool, s.profileJobs(src.ProfilesDir, squad.Players, p.Club)) {
			switch {
			case res.Err != nil:
				metrics.RecordError("collect", "fbref_profile")
				log.Warn(ctx, "profile skipped", logger.String("player", squad.Players[i].Name), logger.Error(res.Err))
			case res.Value.ok:
				records = append(records, res.Value.rec)
				profiles++
			}
		}
		log.Info(ctx, "fbref squad parsed",
			logger.String("path", p.Path),
			logger.String("club", p.Club),
			logger.Int("players", squad.Table.Len()),
			logger.Int("profiles", profiles),
		)
	}

	var tmRows []transfermarkt.Row
	for _, p := range src.Transfermarkt {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := parseFile(p.Path, func(f *os.File) ([]transfermarkt.Row, error) {
			return transfermarkt.ParseSquad(f, p.Club, p.League)
		})
		if err != nil {
			metrics.RecordError("collect", "transfermarkt_squad")
			return nil, err
		}
		tmRows = append(tmRows, rows...)
		log.Info(ctx, "transfermarkt squad parsed",
			logger.String("path", p.Path),
			logger.String("club", p.Club),
			logger.Int("players", len(rows)),
		)
	}

	if len(squads) == 0 {
		return transfermarkt.Table(tmRows), nil
	}
	tmRecords := make([]enrich.Record, len(tmRows))
	for i, row := range tmRows {
		tmRecords[i] = row.Record()
	}

	// One join per source, so a player known to both keeps both.
	out := table.Concat(squads...)
	for _, source := range []struct {
		name    string
		records []enrich.Record
	}{
		{"fbref_profiles", records},
		{"transfermarkt", tmRecords},
	} {
		merged, mr := enrich.Merge(out, source.records)
		out = merged
		metrics.RecordEnrichedRows(mr.Matched)
		log.Info(ctx, "source joined",
			logger.String("source", source.name),
			logger.Int("rows", out.Len()),
			logger.Int("matched", mr.Matched),
			logger.Int("unused", mr.Unused),
			logger.Int("duplicates", mr.Duplicates),
		)
	}
	return out, nil
}

type profileResult struct {
	rec enrich.Record
	ok  bool
}

// profileJobs reads the saved profile page of every player.
func (s *Service) profileJobs(dir string, players []fbref.Player, club string) []worker.Job[profileResult] {
	jobs := make([]worker.Job[profileResult], len(players))
	for i, pl := range players {
		jobs[i] = func(ctx context.Context) (profileResult, error) {
			if err := ctx.Err(); err != nil {
				return profileResult{}, err
			}
			rec, ok, err := s.profile(dir, pl, club)
			return profileResult{rec: rec, ok: ok}, err
		}
	}
	return jobs
}

// profile reads the saved page of pl. A player without a saved page yields
// ok == false.
func (s *Service) profile(dir string, pl fbref.Player, club string) (enrich.Record, bool, error) {
	if dir == "" || pl.ProfileFile() == "" {
		return enrich.Record{}, false, nil
	}
	path := filepath.Join(dir, pl.ProfileFile())
	prof, err := parseFile(path, func(f *os.File) (fbref.Profile, error) {
		return fbref.ParseProfile(f, pl.Role)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return enrich.Record{}, false, nil
	}
	if err != nil {
		return enrich.Record{}, false, err
	}
	return prof.Record(pl.Name, club, pl.Role), true, nil
}
