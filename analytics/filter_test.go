package analytics

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilters_EqualityOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "explicit eq",
			key:      "country__eq",
			value:    "USA",
			wantSQL:  "countries.name = ?",
			wantArgs: []interface{}{"USA"},
		},
		{
			name:     "bare key defaults to eq",
			key:      "country",
			value:    "USA",
			wantSQL:  "countries.name = ?",
			wantArgs: []interface{}{"USA"},
		},
		{
			name:     "unknown operator token behaves as eq",
			key:      "country__regex",
			value:    "USA",
			wantSQL:  "countries.name = ?",
			wantArgs: []interface{}{"USA"},
		},
		{
			name:     "ne compiles to negated equality",
			key:      "country__ne",
			value:    "USA",
			wantSQL:  "NOT (countries.name = ?)",
			wantArgs: []interface{}{"USA"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := url.Values{tt.key: []string{tt.value}}
			filter, err := CompileFilters(params, nil, BlogFieldMapping())
			require.NoError(t, err)

			conds := filter.Conditions()
			require.Len(t, conds, 1)
			assert.Equal(t, tt.wantSQL, conds[0].SQL)
			assert.Equal(t, tt.wantArgs, conds[0].Args)
		})
	}
}

func TestCompileFilters_InSplitsCommaSeparatedValues(t *testing.T) {
	t.Parallel()

	params := url.Values{"user__in": []string{"alice,bob"}}
	filter, err := CompileFilters(params, nil, BlogFieldMapping())
	require.NoError(t, err)

	conds := filter.Conditions()
	require.Len(t, conds, 1)
	assert.Equal(t, "users.username IN ?", conds[0].SQL)
	assert.Equal(t, []interface{}{[]string{"alice", "bob"}}, conds[0].Args)
}

func TestCompileFilters_SubstringOperators(t *testing.T) {
	t.Parallel()

	params := url.Values{
		"title__contains":    []string{"Go"},
		"content__icontains": []string{"Gin"},
	}
	filter, err := CompileFilters(params, nil, BlogFieldMapping())
	require.NoError(t, err)

	conds := filter.Conditions()
	require.Len(t, conds, 2)
	// Keys compile in sorted order: content before title.
	assert.Equal(t, "LOWER(blogs.content) LIKE LOWER(?)", conds[0].SQL)
	assert.Equal(t, []interface{}{"%Gin%"}, conds[0].Args)
	assert.Equal(t, "blogs.title LIKE BINARY ?", conds[1].SQL)
	assert.Equal(t, []interface{}{"%Go%"}, conds[1].Args)
}

func TestCompileFilters_OrderingOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op      string
		wantSQL string
	}{
		{"gt", "blogs.created_at > ?"},
		{"gte", "blogs.created_at >= ?"},
		{"lt", "blogs.created_at < ?"},
		{"lte", "blogs.created_at <= ?"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.op, func(t *testing.T) {
			t.Parallel()

			params := url.Values{"created_at__" + tt.op: []string{"2024-01-01"}}
			filter, err := CompileFilters(params, nil, BlogFieldMapping())
			require.NoError(t, err)

			conds := filter.Conditions()
			require.Len(t, conds, 1)
			assert.Equal(t, tt.wantSQL, conds[0].SQL)
		})
	}
}

func TestCompileFilters_ReservedKeysAreSkipped(t *testing.T) {
	t.Parallel()

	params := url.Values{
		"object_type": []string{"country"},
		"range":       []string{"month"},
		"country__eq": []string{"USA"},
	}
	filter, err := CompileFilters(params, []string{"object_type", "range"}, BlogFieldMapping())
	require.NoError(t, err)

	require.Len(t, filter.Conditions(), 1)
	assert.Equal(t, "countries.name = ?", filter.Conditions()[0].SQL)
}

func TestCompileFilters_UnmappedFieldIsRejected(t *testing.T) {
	t.Parallel()

	params := url.Values{"password__eq": []string{"x"}}
	_, err := CompileFilters(params, nil, BlogFieldMapping())
	require.Error(t, err)

	var unknown *UnknownFieldError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "password", unknown.Field)
	assert.Contains(t, err.Error(), "unknown filter field")
}

func TestCompileFilters_MultipleFiltersAreConjoined(t *testing.T) {
	t.Parallel()

	params := url.Values{
		"country__eq": []string{"USA"},
		"user__in":    []string{"alice,bob"},
	}
	filter, err := CompileFilters(params, nil, BlogFieldMapping())
	require.NoError(t, err)

	conds := filter.Conditions()
	require.Len(t, conds, 2)
	assert.Equal(t, "countries.name = ?", conds[0].SQL)
	assert.Equal(t, "users.username IN ?", conds[1].SQL)
	assert.False(t, filter.Empty())
}

func TestCompileFilters_NoParamsYieldsEmptyFilter(t *testing.T) {
	t.Parallel()

	filter, err := CompileFilters(url.Values{}, nil, BlogFieldMapping())
	require.NoError(t, err)
	assert.True(t, filter.Empty())
}

func TestFilterApply_NilFilterIsNoop(t *testing.T) {
	t.Parallel()

	var f *Filter
	assert.True(t, f.Empty())
	assert.Nil(t, f.Conditions())
}
