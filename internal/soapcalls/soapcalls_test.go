package soapcalls

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seba2390/SymMediaStreamer/internal/domain"
)

func TestInvokeSetsSOAPHeaders(t *testing.T) {
	var gotAction, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPACTION")
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte("<ok/>"))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, avTransportService)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Invoke(context.Background(), "Play", []Arg{
		{Name: "InstanceID", Value: "0"},
		{Name: "Speed", Value: "1"},
	}); err != nil {
		t.Fatal(err)
	}

	want := `"urn:schemas-upnp-org:service:AVTransport:1#Play"`
	if gotAction != want {
		t.Errorf("SOAPACTION = %q, want %q", gotAction, want)
	}
	if gotContentType != `text/xml; charset="utf-8"` {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if !strings.Contains(gotBody, `<u:Play xmlns:u="urn:schemas-upnp-org:service:AVTransport:1">`) {
		t.Errorf("envelope missing action element:\n%s", gotBody)
	}
	if !strings.Contains(gotBody, "<InstanceID>0</InstanceID><Speed>1</Speed>") {
		t.Errorf("envelope missing ordered arguments:\n%s", gotBody)
	}
}

func TestInvokeSOAPActionHeaderCasing(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	rawCh := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var raw strings.Builder
		buf := make([]byte, 8192)
		for !strings.Contains(raw.String(), "\r\n\r\n") {
			n, err := conn.Read(buf)
			if err != nil {
				break
			}
			raw.Write(buf[:n])
		}
		rawCh <- raw.String()
		conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\nConnection: close\r\n\r\n<ok/>"))
	}()

	client, err := NewClient("http://"+ln.Addr().String(), avTransportService)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Invoke(context.Background(), "Play", []Arg{
		{Name: "InstanceID", Value: "0"},
	}); err != nil {
		t.Fatal(err)
	}

	raw := <-rawCh
	if !strings.Contains(raw, "SOAPACTION: ") {
		t.Errorf("header name not sent upper-case on the wire:\n%s", raw)
	}
	if strings.Contains(raw, "Soapaction:") {
		t.Errorf("header name canonicalized on the wire:\n%s", raw)
	}
}

func TestInvokeControlError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, avTransportService)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Invoke(context.Background(), "Stop", []Arg{{Name: "InstanceID", Value: "0"}})

	var cerr *domain.ControlError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *domain.ControlError", err)
	}
	if cerr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", cerr.StatusCode)
	}
	if len(cerr.Snippet) != snippetMaxSize {
		t.Errorf("Snippet length = %d, want %d", len(cerr.Snippet), snippetMaxSize)
	}
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	if _, err := NewClient("/upnp/control/AVT", avTransportService); err == nil {
		t.Error("relative control URL accepted")
	}
}

func TestSetURIWithMetadataFallsBackOnce(t *testing.T) {
	var metadatas []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		meta := ExtractTag(string(body), "CurrentURIMetaData")
		metadatas = append(metadatas, meta)
		if meta != "" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("<fault/>"))
			return
		}
		w.Write([]byte("<ok/>"))
	}))
	defer srv.Close()

	avt, err := NewAVTransport(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if err := avt.SetURIWithMetadata(context.Background(), "http://10.0.0.1:8200/movie.mp4", "movie.mp4", "video/mp4"); err != nil {
		t.Fatalf("fallback did not recover: %v", err)
	}
	if len(metadatas) != 2 {
		t.Fatalf("calls = %d, want 2", len(metadatas))
	}
	if metadatas[0] == "" {
		t.Error("first attempt sent empty metadata")
	}
	if metadatas[1] != "" {
		t.Errorf("second attempt metadata = %q, want empty", metadatas[1])
	}
}

func TestSetURIWithMetadataNoSecondRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<fault/>"))
	}))
	defer srv.Close()

	avt, err := NewAVTransport(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	err = avt.SetURIWithMetadata(context.Background(), "http://10.0.0.1:8200/movie.mp4", "movie.mp4", "video/mp4")
	if err == nil {
		t.Fatal("persistent failure reported as success")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want exactly 2", calls)
	}
}

func TestVolumeRoundTrip(t *testing.T) {
	var stored string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch {
		case strings.Contains(r.Header.Get("SOAPACTION"), "SetVolume"):
			stored = ExtractTag(string(body), "DesiredVolume")
			w.Write([]byte("<ok/>"))
		case strings.Contains(r.Header.Get("SOAPACTION"), "GetVolume"):
			w.Write([]byte("<s:Envelope><s:Body><u:GetVolumeResponse><CurrentVolume>" +
				stored + "</CurrentVolume></u:GetVolumeResponse></s:Body></s:Envelope>"))
		}
	}))
	defer srv.Close()

	rc, err := NewRenderingControl(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if err := rc.SetVolume(context.Background(), 42); err != nil {
		t.Fatal(err)
	}
	resp, err := rc.GetVolume(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := ExtractTag(resp, "CurrentVolume"); got != "42" {
		t.Errorf("CurrentVolume = %q, want 42", got)
	}
}

func TestSetVolumeRange(t *testing.T) {
	rc, err := NewRenderingControl("http://10.0.0.1/ctl")
	if err != nil {
		t.Fatal(err)
	}
	if err := rc.SetVolume(context.Background(), 101); err == nil {
		t.Error("volume 101 accepted")
	}
	if err := rc.SetVolume(context.Background(), -1); err == nil {
		t.Error("volume -1 accepted")
	}
}

func TestExtractTag(t *testing.T) {
	cases := []struct {
		name string
		body string
		tag  string
		want string
	}{
		{"plain", "<CurrentVolume>25</CurrentVolume>", "CurrentVolume", "25"},
		{"prefixed", "<u:RelTime>00:01:30</u:RelTime>", "RelTime", "00:01:30"},
		{"nested", "<Body><CurrentMute>1</CurrentMute></Body>", "CurrentMute", "1"},
		{"absent", "<Body></Body>", "CurrentVolume", ""},
		{"empty", "<RelTime></RelTime>", "RelTime", ""},
		{"attrs", `<res protocolInfo="x">http://h/f</res>`, "res", "http://h/f"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTag(tc.body, tc.tag); got != tc.want {
				t.Errorf("ExtractTag(%q, %q) = %q, want %q", tc.body, tc.tag, got, tc.want)
			}
		})
	}
}

func TestEscape(t *testing.T) {
	got := Escape(`a&b <c> "d" 'e'`)
	want := "a&amp;b &lt;c&gt; &quot;d&quot; &apos;e&apos;"
	if got != want {
		t.Errorf("Escape = %q, want %q", got, want)
	}
}

func TestBuildDIDL(t *testing.T) {
	didl := BuildDIDL("http://10.0.0.1:8200/a&b.mp4", "a&b.mp4", "video/mp4")
	if !strings.Contains(didl, "<dc:title>a&amp;b.mp4</dc:title>") {
		t.Errorf("title not escaped:\n%s", didl)
	}
	if !strings.Contains(didl, "object.item.videoItem.movie") {
		t.Errorf("wrong upnp class:\n%s", didl)
	}
	if !strings.Contains(didl, `protocolInfo="http-get:*:video/mp4:DLNA.ORG_PN=AVC_MP4_HD_24_AC3;`) {
		t.Errorf("missing DLNA profile:\n%s", didl)
	}
}

func TestBuildDIDLAudioClass(t *testing.T) {
	didl := BuildDIDL("http://10.0.0.1:8200/song.mp3", "song.mp3", "audio/mpeg")
	if !strings.Contains(didl, "object.item.audioItem.musicTrack") {
		t.Errorf("wrong upnp class:\n%s", didl)
	}
	if !strings.Contains(didl, "DLNA.ORG_PN=MP3") {
		t.Errorf("missing MP3 profile:\n%s", didl)
	}
}

func TestDLNAProfileGenericFallback(t *testing.T) {
	got := DLNAProfile("application/octet-stream")
	if strings.Contains(got, "DLNA.ORG_PN=") {
		t.Errorf("generic profile should carry no PN: %q", got)
	}
	if !strings.Contains(got, "DLNA.ORG_OP=11") {
		t.Errorf("generic profile missing OP: %q", got)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"0:00:00", 0, false},
		{"00:01:30", 90 * time.Second, false},
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second, false},
		{"00:00:01.500", time.Second, false},
		{"NOT_IMPLEMENTED", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{-5 * time.Second, "00:00:00"},
	}
	for _, tc := range cases {
		if got := FormatClock(tc.in); got != tc.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
