package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSearchResult_TotalPages(t *testing.T) {
	tests := []struct {
		name   string
		total  int64
		paging Paging
		want   int
	}{
		{"empty", 0, Paging{PageSize: 10}, 0},
		{"exact pages", 20, Paging{PageSize: 10}, 2},
		{"partial last page", 21, Paging{PageSize: 10}, 3},
		{"unpaged", 7, Paging{}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := NewSearchResult[Program](nil, tc.total, tc.paging)
			assert.Equal(t, tc.want, res.TotalPages)
			assert.NotNil(t, res.Entities)
		})
	}
}

func TestPaging_Offset(t *testing.T) {
	assert.Equal(t, 0, Paging{PageNumber: 0, PageSize: 10}.Offset())
	assert.Equal(t, 30, Paging{PageNumber: 3, PageSize: 10}.Offset())
	assert.False(t, Paging{}.Paged())
}

func TestDocumentPaths(t *testing.T) {
	docs := []Document{{Path: "a.pdf"}, {Path: "b.pdf"}}

	assert.Equal(t, []string{"a.pdf", "b.pdf"}, DocumentPaths(docs))
	assert.Empty(t, DocumentPaths(nil))
}
