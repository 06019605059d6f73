package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/eduverse/lms/core/live"
	"github.com/eduverse/lms/core/user"
	testutil "github.com/eduverse/lms/tests"
)

func Test_liveApi_hostOnly(t *testing.T) {
	ta := setup(t)

	host := testutil.CreateUser(t, ta.usrRepo, "Jane", "Mwamba", "jane@test.cd", "LolC@t123", user.RoleTeacher, true)
	other := testutil.CreateUser(t, ta.usrRepo, "John", "Kabila", "john@test.cd", "LolC@t123", user.RoleTeacher, true)

	ses, err := ta.liveSvc.Schedule(context.Background(), host.ID, live.NewSession{
		ClassID:  "cls-1",
		Topic:    "Midterm review",
		StartsAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Schedule() failed: %v", err)
	}

	notFound := marchallObj(t, httpErr{Error: "not found"})

	t.Run("another teacher cannot start it", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/live-sessions/"+ses.ID+"/start", getToken(t, ta.conf, other))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound}, rec)
	})

	t.Run("another teacher cannot end it", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/live-sessions/"+ses.ID+"/end", getToken(t, ta.conf, other))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound}, rec)
	})

	t.Run("the host starts and ends it", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/live-sessions/"+ses.ID+"/start", getToken(t, ta.conf, host))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var started live.Session
		if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if started.Status != live.StatusLive {
			t.Errorf("status = %v; want live", started.Status)
		}

		req, rec = newAuthRequest(http.MethodPost, "/v1/live-sessions/"+ses.ID+"/end", getToken(t, ta.conf, host))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var ended live.Session
		if err := json.Unmarshal(rec.Body.Bytes(), &ended); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if ended.Status != live.StatusEnded {
			t.Errorf("status = %v; want ended", ended.Status)
		}
	})
}
