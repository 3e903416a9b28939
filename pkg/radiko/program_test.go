package radiko

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchConditionQueryParams(t *testing.T) {
	cond := NewSearchCondition("morning show")
	q := cond.queryParams()

	assert.Equal(t, []string{"morning show"}, q["key"])
	assert.Equal(t, "future", q.Get("filter"))
	assert.Equal(t, "50", q.Get("row_limit"))
	assert.NotContains(t, q, "station_id")
	assert.NotContains(t, q, "start_day")

	cond = SearchCondition{
		Keys:       []string{"news", "weather"},
		Filter:     FilterTimeFree,
		StationIDs: []string{"TBS", "QRR"},
		CurAreaID:  "JP13",
		StartDay:   "2026-08-24",
	}
	q = cond.queryParams()
	assert.Equal(t, []string{"news", "weather"}, q["key"])
	assert.Equal(t, []string{"TBS", "QRR"}, q["station_id"])
	assert.Equal(t, "past", q.Get("filter"))
	assert.Equal(t, "JP13", q.Get("cur_area_id"))
	assert.Equal(t, "2026-08-24", q.Get("start_day"))
}

func TestSearchPrograms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tom brown", r.URL.Query().Get("key"))
		_, _ = io.WriteString(w, `{"data":[{
			"start_time":"2026-08-29 00:00:00",
			"end_time":"2026-08-29 01:30:00",
			"program_date":"20260828",
			"program_url":"https://example.org/show/",
			"station_id":"MBS",
			"performer":"Tom Brown",
			"title":"Late Show",
			"info":"",
			"description":"desc",
			"status":"past",
			"img":"https://example.org/show.jpg"
		}]}`)
	}))
	defer srv.Close()

	results, err := searchPrograms(context.Background(), srv.Client(), srv.URL, NewSearchCondition("tom brown"))
	require.NoError(t, err)
	require.Len(t, results.Data, 1)

	got := results.Data[0]
	assert.Equal(t, "MBS", got.StationID)
	assert.Equal(t, "Late Show", got.Title)
	assert.Equal(t, "past", got.Status)
}

func TestSearchProgramsRequiresKeyword(t *testing.T) {
	_, err := searchPrograms(context.Background(), http.DefaultClient, "http://127.0.0.1:0", SearchCondition{})
	assert.Error(t, err)
}

const stubProgramGuideXML = `<?xml version="1.0" encoding="UTF-8" ?>
<radiko>
  <ttl>150</ttl>
  <srvtime>1756600000</srvtime>
  <stations>
    <station id="TBS">
      <name>TBSラジオ</name>
      <progs>
        <date>20260831</date>
        <prog id="11111" ft="20260831060000" to="20260831083000" ftl="0600" tol="0830" dur="9000">
          <title>森本毅郎・スタンバイ!</title>
          <url>https://www.tbsradio.jp/stand-by/</url>
          <desc></desc>
          <info>morning news</info>
          <pfm>森本毅郎</pfm>
          <img>https://program-static.cf.radiko.jp/stand-by.png</img>
        </prog>
      </progs>
    </station>
  </stations>
</radiko>`

func TestFetchProgramGuide(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, stubProgramGuideXML)
	}))
	defer srv.Close()

	guide, err := fetchProgramGuide(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Len(t, guide, 1)

	station := guide[0]
	assert.Equal(t, "TBS", station.StationID)
	require.Len(t, station.Programs, 1)

	prog := station.Programs[0]
	assert.Equal(t, "11111", prog.ID)
	assert.Equal(t, "20260831060000", prog.From)
	assert.Equal(t, "20260831083000", prog.To)
	assert.Equal(t, "森本毅郎・スタンバイ!", prog.Title)
	assert.Equal(t, "森本毅郎", prog.Performer)
}
