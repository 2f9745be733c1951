package trace

import (
	"io"

	"github.com/emirpasic/gods/v2/lists/arraylist"
)

// StatementCache holds the statements of a call being assembled: the call's own statement is the most recent
// one, and auxiliary declarations can be inserted before it.
//
// Statements are flushed in order, and the cache is cleared after each flush.
type StatementCache struct {
	statements *arraylist.List[string]
}

// NewStatementCache creates an empty StatementCache.
func NewStatementCache() *StatementCache {
	return &StatementCache{statements: arraylist.New[string]()}
}

// Begin a new statement with the given text.
func (c *StatementCache) Begin(text string) {
	c.statements.Add(text)
}

// AppendToCurrent appends text to the most recent statement, or begins one if the cache is empty.
func (c *StatementCache) AppendToCurrent(text string) {
	last := c.statements.Size() - 1
	if last < 0 {
		c.Begin(text)
		return
	}
	current, _ := c.statements.Get(last)
	c.statements.Set(last, current+text)
}

// InsertBeforeCurrent inserts a new statement immediately before the most recent one.
// If the cache is empty, it simply begins a statement.
func (c *StatementCache) InsertBeforeCurrent(text string) {
	last := c.statements.Size() - 1
	if last < 0 {
		c.Begin(text)
		return
	}
	c.statements.Insert(last, text)
}

// Pending returns the statements not yet flushed.
func (c *StatementCache) Pending() []string {
	return c.statements.Values()
}

// Len returns the number of statements not yet flushed.
func (c *StatementCache) Len() int {
	return c.statements.Size()
}

// FlushAll writes the statements to w, one per line, in order, and clears the cache.
// It returns the number of statements written.
//
// The cache is cleared even if the writing fails.
func (c *StatementCache) FlushAll(w io.Writer) (int, error) {
	defer c.statements.Clear()
	for ii, statement := range c.statements.Values() {
		if _, err := io.WriteString(w, statement+"\n"); err != nil {
			return ii, err
		}
	}
	return c.statements.Size(), nil
}
