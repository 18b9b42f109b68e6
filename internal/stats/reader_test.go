package stats

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDefaultsToPageViews(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"occured_at", "event", "cnt"}).
		AddRow(uint32(20260101), "/", uint64(42))
	mock.ExpectQuery("SELECT occured_at, event, count\\(\\) AS cnt").
		WithArgs("site-1", uint32(20260101), uint32(20260107)).
		WillReturnRows(rows)

	r := NewReader(db)
	points, err := r.Run(context.Background(), Query{
		SiteID: "site-1", From: 20260101, To: 20260107,
	})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, uint64(42), points[0].Count)
}

func TestRunUniqueVisitors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"occured_at", "user_id", "cnt"}).
		AddRow(uint32(20260101), "a", uint64(2)).
		AddRow(uint32(20260101), "b", uint64(1))
	mock.ExpectQuery("SELECT occured_at, user_id, count\\(\\) AS cnt").
		WithArgs("site-1", uint32(20260101), uint32(20260107)).
		WillReturnRows(rows)

	r := NewReader(db)
	points, err := r.Run(context.Background(), Query{
		SiteID: "site-1", From: 20260101, To: 20260107, What: WhatUniqueVisitors,
	})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "a", points[0].Value)
	assert.Equal(t, uint64(2), points[0].Count)
	assert.Equal(t, "b", points[1].Value)
	assert.Equal(t, uint64(1), points[1].Count)
}

func TestRunUnknownMetricErrors(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewReader(db)
	_, err = r.Run(context.Background(), Query{SiteID: "site-1", What: "bogus"})
	require.Error(t, err)
}
