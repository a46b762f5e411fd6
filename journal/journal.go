// Package journal persists one record per decided turn so a match can be
// reviewed after the fact.
package journal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nstehr/bastion/strategy"
)

var ErrClosed = errors.New("journal closed")

// TurnRecord is one row of the journal.
type TurnRecord struct {
	ID           uint      `gorm:"primarykey"`
	MatchID      string    `gorm:"index"`
	Turn         int       `gorm:"index"`
	Phase        string
	Side         string
	Goal         float64
	SP           float64
	MP           float64
	Committed    bool
	FailureCount int
	CommandCount int
	Commands     string
	CreatedAt    time.Time
}

// Journal writes TurnRecords for a single match.
type Journal struct {
	db    *gorm.DB
	match string
}

// Open connects to the SQLite file at path (":memory:" for a throwaway
// journal) and migrates the schema. match tags every record written.
func Open(path, match string) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := db.AutoMigrate(&TurnRecord{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	slog.Info("journal opened", "path", path, "match", match)
	return &Journal{db: db, match: match}, nil
}

func recordFromDecision(match string, d strategy.Decision) TurnRecord {
	cmds := make([]string, len(d.Commands))
	for i, c := range d.Commands {
		cmds[i] = c.String()
	}
	return TurnRecord{
		MatchID:      match,
		Turn:         d.Turn,
		Phase:        d.Phase.String(),
		Side:         d.Side.String(),
		Goal:         d.Goal,
		SP:           d.SP,
		MP:           d.MP,
		Committed:    d.Committed,
		FailureCount: d.FailureCount,
		CommandCount: len(d.Commands),
		Commands:     strings.Join(cmds, "; "),
	}
}

// Record inserts the decision as a TurnRecord.
func (j *Journal) Record(d strategy.Decision) error {
	if j.db == nil {
		return ErrClosed
	}
	rec := recordFromDecision(j.match, d)
	if err := j.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("insert turn %d: %w", d.Turn, err)
	}
	return nil
}

// Turns returns the match's records in turn order.
func (j *Journal) Turns() ([]TurnRecord, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	var recs []TurnRecord
	if err := j.db.Where("match_id = ?", j.match).Order("turn, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	return recs, nil
}

// Close releases the database. Further calls return ErrClosed.
func (j *Journal) Close() error {
	if j.db == nil {
		return ErrClosed
	}
	sqlDB, err := j.db.DB()
	j.db = nil
	if err != nil {
		return fmt.Errorf("access journal db: %w", err)
	}
	return sqlDB.Close()
}
