package ffcv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const heuristicPage = `<html><body>
<table>
  <tr><th>Partido</th><th>Fecha</th><th>Jornada</th><th>Campo</th></tr>
  <tr><td>AT Gilet - CD Rival 3 - 1</td><td>14/12/2025 18:00</td><td>Jornada 5</td><td>Campo: Municipal</td></tr>
  <tr><td>CD Otro - UD Tercero 2 - 2</td><td>14/12/2025 16:00</td><td>Jornada 5</td><td>Campo: Norte</td></tr>
  <tr><td>Publicidad patrocinador</td><td></td><td></td><td></td></tr>
  <tr><td colspan="4">Clasificación</td></tr>
</table>
<table>
  <tr><th>Próximos</th><th></th><th></th><th></th></tr>
  <tr><td>UD Cuarto - AT Gilet</td><td></td><td></td><td></td></tr>
</table>
</body></html>`

func newTestSource(t *testing.T, handler http.Handler) (*Source, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{HTTPClient: server.Client()})
	source := NewSource(client, SourceConfig{
		BaseURL:             server.URL,
		TeamMatchesTemplate: "/equipo_p_partidos.php?id_equipo={team_id}",
	})
	return source, server
}

func TestFetchMatchesHeuristicExampleRow(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(heuristicPage))
	}))

	parsed, err := source.FetchMatches(context.Background(), "12345", "AT Gilet")
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	pm := parsed[0]
	require.Equal(t, "AT Gilet", pm.HomeTeam)
	require.Equal(t, "CD Rival", pm.AwayTeam)
	require.NotNil(t, pm.HomeScore)
	require.NotNil(t, pm.AwayScore)
	require.Equal(t, 3, *pm.HomeScore)
	require.Equal(t, 1, *pm.AwayScore)
	require.Equal(t, "PLAYED", pm.Status)
	require.NotNil(t, pm.KickoffAt)
	require.Equal(t, time.Date(2025, time.December, 14, 18, 0, 0, 0, time.UTC), *pm.KickoffAt)
	require.NotNil(t, pm.RoundNumber)
	require.Equal(t, 5, *pm.RoundNumber)
	require.Equal(t, "Municipal", pm.VenueName)
	require.NotEmpty(t, pm.ExternalKey)
}

func TestFetchMatchesFiltersTargetTeam(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(heuristicPage))
	}))

	parsed, err := source.FetchMatches(context.Background(), "12345", "AT Gilet")
	require.NoError(t, err)

	// Four table rows carry a team pair; only two involve the target.
	require.Len(t, parsed, 2)
	for _, pm := range parsed {
		involved := containsFold(pm.HomeTeam, "AT Gilet") || containsFold(pm.AwayTeam, "AT Gilet")
		require.True(t, involved, "unexpected row %q vs %q", pm.HomeTeam, pm.AwayTeam)
	}
}

func TestFetchMatchesScheduledRowWithoutScore(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(heuristicPage))
	}))

	parsed, err := source.FetchMatches(context.Background(), "12345", "AT Gilet")
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	pm := parsed[1]
	require.Equal(t, "UD Cuarto", pm.HomeTeam)
	require.Equal(t, "AT Gilet", pm.AwayTeam)
	require.Nil(t, pm.HomeScore)
	require.Nil(t, pm.AwayScore)
	require.Equal(t, "SCHEDULED", pm.Status)
	require.Nil(t, pm.KickoffAt)
}

func TestFetchMatchesScheduledRowTrimsTrailingColumns(t *testing.T) {
	t.Parallel()

	page := `<html><body><table>
  <tr><th>Partido</th><th>Fecha</th><th>Jornada</th><th>Campo</th></tr>
  <tr><td>UD Cuarto - AT Gilet</td><td>14/12/2025 18:00</td><td>Jornada 7</td><td>Campo: Municipal</td></tr>
</table></body></html>`

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))

	parsed, err := source.FetchMatches(context.Background(), "12345", "AT Gilet")
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	pm := parsed[0]
	require.Equal(t, "UD Cuarto", pm.HomeTeam)
	require.Equal(t, "AT Gilet", pm.AwayTeam)
	require.Nil(t, pm.HomeScore)
	require.Nil(t, pm.AwayScore)
	require.Equal(t, "SCHEDULED", pm.Status)
	require.NotNil(t, pm.KickoffAt)
	require.Equal(t, time.Date(2025, time.December, 14, 18, 0, 0, 0, time.UTC), *pm.KickoffAt)
	require.NotNil(t, pm.RoundNumber)
	require.Equal(t, 7, *pm.RoundNumber)
	require.Equal(t, "Municipal", pm.VenueName)
}

func TestFetchMatchesKeyStableAcrossParses(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(heuristicPage))
	}))

	first, err := source.FetchMatches(context.Background(), "12345", "AT Gilet")
	require.NoError(t, err)
	second, err := source.FetchMatches(context.Background(), "12345", "AT Gilet")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		require.Equal(t, first[i].ExternalKey, second[i].ExternalKey)
	}
}

func TestTeamMatchesURL(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	source := NewSource(client, SourceConfig{
		BaseURL:             "https://www.ffcv.es",
		TeamMatchesTemplate: "/equipo_p_partidos.php?id_equipo={team_id}",
	})

	got, err := source.TeamMatchesURL("987")
	require.NoError(t, err)
	require.Equal(t, "https://www.ffcv.es/equipo_p_partidos.php?id_equipo=987", got)
}
