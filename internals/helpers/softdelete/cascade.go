// Package softdelete declares which rows follow a parent into the bin and applies the
// cascade inside the caller's transaction.
package softdelete

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Policy describes one table in a cascade tree. ParentColumn is the column on this table
// that points at the parent's key; it is empty for the root.
type Policy struct {
	Table           string
	KeyColumn       string
	DeletedAtColumn string
	ParentColumn    string
	Children        []Policy
}

// Apply soft-deletes the rows of p with the given keys together with every live
// descendant. Children are marked before their parent.
func Apply(tx *gorm.DB, p Policy, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	for _, ch := range p.Children {
		var childIDs []uuid.UUID
		if err := tx.Table(ch.Table).
			Where(fmt.Sprintf("%s IN ? AND %s IS NULL", ch.ParentColumn, ch.DeletedAtColumn), ids).
			Pluck(ch.KeyColumn, &childIDs).Error; err != nil {
			return fmt.Errorf("cascade %s: %w", ch.Table, err)
		}
		if err := Apply(tx, ch, childIDs, at); err != nil {
			return err
		}
	}
	if err := tx.Table(p.Table).
		Where(fmt.Sprintf("%s IN ? AND %s IS NULL", p.KeyColumn, p.DeletedAtColumn), ids).
		Update(p.DeletedAtColumn, at).Error; err != nil {
		return fmt.Errorf("soft delete %s: %w", p.Table, err)
	}
	return nil
}

// Run wraps Apply in its own transaction.
func Run(db *gorm.DB, p Policy, ids []uuid.UUID) error {
	now := time.Now().UTC()
	return db.Transaction(func(tx *gorm.DB) error {
		return Apply(tx, p, ids, now)
	})
}
