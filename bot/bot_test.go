package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"station-scraper/converter"
)

type stubConverter struct {
	got    []converter.Request
	result string
}

func (c *stubConverter) Convert(_ context.Context, req converter.Request) string {
	c.got = append(c.got, req)
	return c.result
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		command string
		req     converter.Request
		usage   string
	}{
		{"bare url", "danskejernbaner.dk/vis.station.php?FRA=HO", "station", converter.Request{StationURL: "danskejernbaner.dk/vis.station.php?FRA=HO"}, ""},
		{"station", "/station https://danskejernbaner.dk/vis.station.php?FRA=HO", "station", converter.Request{StationURL: "https://danskejernbaner.dk/vis.station.php?FRA=HO"}, ""},
		{"line with item", "/line danskejernbaner.dk/vis.bane.php?ID=12 Q115408461", "line", converter.Request{LineURL: "danskejernbaner.dk/vis.bane.php?ID=12", LineID: "Q115408461"}, ""},
		{"line without item", "/line danskejernbaner.dk/vis.bane.php?ID=12", "line", converter.Request{LineURL: "danskejernbaner.dk/vis.bane.php?ID=12"}, ""},
		{"bot mention", "/station@stationbot x", "station", converter.Request{StationURL: "x"}, ""},
		{"station without url", "/station", "station", converter.Request{}, stationUsage},
		{"line with extra args", "/line a b c", "line", converter.Request{}, lineUsage},
		{"empty", "   ", "help", converter.Request{}, ""},
		{"help", "/help", "help", converter.Request{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, req, usage := parseMessage(tt.text)
			require.Equal(t, tt.usage, usage)
			require.Equal(t, tt.command, command)
			require.Equal(t, tt.req, req)
		})
	}
}

func TestReplies(t *testing.T) {
	ctx := context.Background()

	t.Run("conversion result", func(t *testing.T) {
		conv := &stubConverter{result: "CREATE\nLAST\tP17\tQ35\n"}
		require.Equal(t, []string{"CREATE\nLAST\tP17\tQ35\n"}, replies(ctx, conv, "/line x Q1"))
		require.Equal(t, []converter.Request{{LineURL: "x", LineID: "Q1"}}, conv.got)
	})

	t.Run("error text", func(t *testing.T) {
		conv := &stubConverter{result: "Error: No stations found"}
		require.Equal(t, []string{"Error: No stations found"}, replies(ctx, conv, "/line x"))
	})

	t.Run("empty result", func(t *testing.T) {
		conv := &stubConverter{}
		require.Equal(t, []string{"Nothing to convert."}, replies(ctx, conv, "x"))
	})

	t.Run("usage", func(t *testing.T) {
		conv := &stubConverter{}
		require.Equal(t, []string{"Usage: /station <url>"}, replies(ctx, conv, "/station"))
		require.Equal(t, []string{"Usage: /line <url> [Q-item]"}, replies(ctx, conv, "/line"))
		require.Empty(t, conv.got)
	})

	t.Run("help", func(t *testing.T) {
		require.Equal(t, []string{helpText}, replies(ctx, &stubConverter{}, "/start"))
	})

	t.Run("unknown command", func(t *testing.T) {
		got := replies(ctx, &stubConverter{}, "/config")
		require.Len(t, got, 1)
		require.Contains(t, got[0], "Unknown command /config")
	})
}

func TestAuthorized(t *testing.T) {
	open := &Bot{allowed: map[int64]bool{}}
	require.True(t, open.authorized(42))

	restricted := &Bot{allowed: map[int64]bool{420478432: true}}
	require.True(t, restricted.authorized(420478432))
	require.False(t, restricted.authorized(42))
}
