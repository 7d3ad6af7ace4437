package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gift_parser/internal/domain/entity"
	"gift_parser/internal/domain/value"
)

func TestCommandTail(t *testing.T) {
	rq := require.New(t)

	rq.Equal("Plush Pepe #2790", commandTail("/gift   Plush Pepe #2790 "))
	rq.Equal("", commandTail("/gift"))
	rq.Equal([]string{"widget", "1", "5"}, commandArgs("/batch@gift_bot widget  1 5"))
}

func TestParsePage(t *testing.T) {
	rq := require.New(t)

	rq.Equal(1, parsePage(nil))
	rq.Equal(3, parsePage([]string{"3"}))
	rq.Equal(1, parsePage([]string{"-2"}))
	rq.Equal(1, parsePage([]string{"two"}))
}

func TestParseParseArgs(t *testing.T) {
	rq := require.New(t)

	giftType, id, err := parseParseArgs([]string{"PlushPepe", "2790"})
	rq.NoError(err)
	rq.Equal(value.GiftType("plushpepe"), giftType)
	rq.Equal(int64(2790), id)

	for _, args := range [][]string{nil, {"plushpepe"}, {"plushpepe", "x"}, {"plushpepe", "0"}, {"!!", "1"}} {
		_, _, err = parseParseArgs(args)
		rq.ErrorIs(err, errUsage)
	}
}

func TestParseBatchArgs(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		args    []string
		want    entity.BatchRequest
		wantErr bool
	}{
		{
			name: "Default delay",
			args: []string{"widget", "1", "5"},
			want: entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 5, Delay: time.Second},
		},
		{
			name: "Comma delay",
			args: []string{"widget", "1", "5", "0,5"},
			want: entity.BatchRequest{GiftType: "widget", StartID: 1, EndID: 5, Delay: 500 * time.Millisecond},
		},
		{
			name: "Reversed range is left to the runner",
			args: []string{"widget", "5", "3"},
			want: entity.BatchRequest{GiftType: "widget", StartID: 5, EndID: 3, Delay: time.Second},
		},
		{name: "Too few", args: []string{"widget", "1"}, wantErr: true},
		{name: "Bad end", args: []string{"widget", "1", "x"}, wantErr: true},
		{name: "Bad delay", args: []string{"widget", "1", "2", "fast"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := parseBatchArgs(tc.args)
			if tc.wantErr {
				rq.ErrorIs(err, errUsage)

				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}

func TestTotalPages(t *testing.T) {
	rq := require.New(t)

	rq.Equal(1, totalPages(0, 10))
	rq.Equal(1, totalPages(10, 10))
	rq.Equal(3, totalPages(21, 10))
}
