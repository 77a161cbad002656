package scraper

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careertrack/jobworker/logger"
)

func testPaginator(page *fakePage, maxPages int) *Paginator {
	log := logger.NewWithWriter(io.Discard, "debug", "")
	return NewPaginator(page, testSiteConfig().Selectors.NextPage, maxPages, time.Millisecond, log)
}

func TestPaginatorAdvancesWhileControlExists(t *testing.T) {
	page := newFakePage()
	page.nextPages = 2

	p := testPaginator(page, 5)
	assert.Equal(t, 1, p.Page())

	moved, err := p.Advance()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, p.Page())

	moved, err = p.Advance()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 3, p.Page())

	// The control is gone now
	moved, err = p.Advance()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 3, p.Page())
}

func TestPaginatorRespectsPageBound(t *testing.T) {
	page := newFakePage()
	page.nextPages = 100

	p := testPaginator(page, 3)

	for i := 0; i < 10; i++ {
		moved, err := p.Advance()
		require.NoError(t, err)
		if !moved {
			break
		}
	}

	assert.Equal(t, 3, p.Page())
	// Only two clicks were spent against the bound of three pages
	assert.Equal(t, 98, page.nextPages)
}

func TestPaginatorSinglePageBound(t *testing.T) {
	page := newFakePage()
	page.nextPages = 5

	p := testPaginator(page, 1)
	moved, err := p.Advance()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 5, page.nextPages)
}
