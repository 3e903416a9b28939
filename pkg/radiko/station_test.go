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

const stubStationListXML = `<?xml version="1.0" encoding="UTF-8" ?>
<stations area_id="JP13" area_name="TOKYO JAPAN">
  <station>
    <id>TBS</id>
    <name>TBSラジオ</name>
    <ascii_name>TBS RADIO</ascii_name>
    <ruby>ティービーエスラジオ</ruby>
    <areafree>1</areafree>
    <timefree>0</timefree>
    <logo width="124" height="40" align="lt">https://radiko.jp/v2/static/station/logo/TBS/124x40.png</logo>
    <logo width="224" height="100" align="lrtrim">https://radiko.jp/v2/static/station/logo/TBS/224x100.png</logo>
    <banner>https://radiko.jp/res/banner/TBS/banner.png</banner>
    <href>https://www.tbsradio.jp/</href>
    <simul_max_delay>25</simul_max_delay>
    <tf_max_delay>20</tf_max_delay>
  </station>
  <station>
    <id>QRR</id>
    <name>文化放送</name>
    <ascii_name>JOQR BUNKA HOSO</ascii_name>
    <ruby>ぶんかほうそう</ruby>
    <areafree>0</areafree>
    <timefree>1</timefree>
    <banner></banner>
    <href>http://www.joqr.co.jp/</href>
    <simul_max_delay>30</simul_max_delay>
    <tf_max_delay>15</tf_max_delay>
  </station>
</stations>`

func TestFetchStations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, stubStationListXML)
	}))
	defer srv.Close()

	stations, err := fetchStations(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "JP13", stations.AreaID)
	assert.Equal(t, "TOKYO JAPAN", stations.AreaName)
	require.Len(t, stations.Data, 2)

	tbs := stations.Data[0]
	assert.Equal(t, "TBS", tbs.ID)
	assert.Equal(t, "TBS RADIO", tbs.ASCIIName)
	assert.True(t, tbs.AreaFree)
	assert.False(t, tbs.TimeFree)
	assert.Equal(t, uint32(25), tbs.SimulMaxDelay)
	assert.Equal(t, uint32(20), tbs.TFMaxDelay)
	require.Len(t, tbs.Logos, 2)
	assert.Equal(t, Logo{
		Width:  124,
		Height: 40,
		Align:  "lt",
		URL:    "https://radiko.jp/v2/static/station/logo/TBS/124x40.png",
	}, tbs.Logos[0])

	qrr := stations.Data[1]
	assert.False(t, qrr.AreaFree)
	assert.True(t, qrr.TimeFree)
	assert.Empty(t, qrr.Logos)
}

const stubRegionFullXML = `<?xml version="1.0" encoding="UTF-8" ?>
<region>
  <stations ascii_name="HOKKAIDO TOHOKU" region_id="hokkaido-tohoku" region_name="北海道・東北">
    <station>
      <id>HBC</id>
      <name>HBCラジオ</name>
      <ascii_name>HBC RADIO</ascii_name>
      <ruby>エイチビーシーラジオ</ruby>
      <areafree>1</areafree>
      <timefree>1</timefree>
      <logo width="124" height="40" align="lt">https://radiko.jp/v2/static/station/logo/HBC/124x40.png</logo>
      <tf_max_delay>20</tf_max_delay>
      <banner></banner>
      <area_id>JP1</area_id>
      <href>https://www.hbc.co.jp/radio/</href>
      <simul_max_delay>25</simul_max_delay>
    </station>
  </stations>
  <stations ascii_name="KANTO" region_id="kanto" region_name="関東">
    <station>
      <id>TBS</id>
      <name>TBSラジオ</name>
      <ascii_name>TBS RADIO</ascii_name>
      <ruby>ティービーエスラジオ</ruby>
      <areafree>1</areafree>
      <timefree>0</timefree>
      <tf_max_delay>20</tf_max_delay>
      <banner></banner>
      <area_id>JP13</area_id>
      <href>https://www.tbsradio.jp/</href>
      <simul_max_delay>25</simul_max_delay>
    </station>
  </stations>
</region>`

func TestFetchRegions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, stubRegionFullXML)
	}))
	defer srv.Close()

	region, err := fetchRegions(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Len(t, region.Groups, 2)

	north := region.Groups[0]
	assert.Equal(t, "hokkaido-tohoku", north.RegionID)
	assert.Equal(t, "北海道・東北", north.RegionName)
	require.Len(t, north.Stations, 1)

	hbc := north.Stations[0]
	assert.Equal(t, "HBC", hbc.ID)
	assert.Equal(t, "JP1", hbc.AreaID)
	assert.True(t, hbc.AreaFree)
	assert.True(t, hbc.TimeFree)
	require.Len(t, hbc.Logos, 1)
	assert.Equal(t, uint32(25), hbc.SimulMaxDelay)

	kanto := region.Groups[1]
	assert.Equal(t, "kanto", kanto.RegionID)
	require.Len(t, kanto.Stations, 1)
	assert.Equal(t, "JP13", kanto.Stations[0].AreaID)
	assert.Empty(t, kanto.Stations[0].Logos)
}

func TestFetchRegionsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fetchRegions(context.Background(), srv.Client(), srv.URL)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestFetchStationsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such area", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fetchStations(context.Background(), srv.Client(), srv.URL)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}
