package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	script := `// reference centers
MERGE (c:ServiceCenter {name: 'A'}) SET c.seq = 1;

// second
MERGE (c:ServiceCenter {name: 'B'})
SET c.seq = 2;
;
`
	got := SplitStatements(script)
	assert.Equal(t, []string{
		"MERGE (c:ServiceCenter {name: 'A'}) SET c.seq = 1",
		"MERGE (c:ServiceCenter {name: 'B'})\nSET c.seq = 2",
	}, got)
}

func TestSplitStatementsEmpty(t *testing.T) {
	assert.Empty(t, SplitStatements("// nothing here\n\n"))
}
