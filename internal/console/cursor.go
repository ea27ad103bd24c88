package console

import (
	"go.uber.org/zap"

	"github.com/radiusdt/ads-console/internal/models"
)

// EditCursor is the one table cell currently in edit mode.
type EditCursor struct {
	ProductID string           `json:"product_id"`
	Column    models.ColumnKey `json:"column"`
}

// BeginEdit puts a cell into edit mode, replacing any other cell. Unknown
// products and non-editable columns are ignored.
func (c *Console) BeginEdit(id string, key models.ColumnKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := key.Def()
	if !ok || !def.Editable {
		c.ignored("not_editable")
		return false
	}
	if _, ok := c.repo.Get(id); !ok {
		c.ignored("unknown_product")
		return false
	}
	c.cursor = &EditCursor{ProductID: id, Column: key}
	return true
}

// CommitEdit parses raw for the cell under the cursor and applies it. The
// cursor is cleared whether or not the value was accepted.
func (c *Console) CommitEdit(raw string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.cursor
	c.cursor = nil
	if cur == nil {
		return false
	}
	v, ok := parseFinite(raw)
	if !ok || v < 0 {
		c.ignored("invalid_number")
		c.logger.Debug("cell input ignored",
			zap.String("product_id", cur.ProductID),
			zap.String("column", string(cur.Column)),
		)
		return false
	}
	e, ok := cur.Column.EditFor(v)
	if !ok {
		c.ignored("not_editable")
		return false
	}
	return c.editLocked(cur.ProductID, e)
}

func (c *Console) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = nil
}

// Cursor returns the cell in edit mode, if any.
func (c *Console) Cursor() (EditCursor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor == nil {
		return EditCursor{}, false
	}
	return *c.cursor, true
}
