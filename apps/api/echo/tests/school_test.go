package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/eduverse/lms/core/school"
	"github.com/eduverse/lms/core/user"
	testutil "github.com/eduverse/lms/tests"
)

func Test_schoolApi_ownSchoolOnly(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Ada", "Okafor", "ada@test.cd", "LolC@t123", user.RoleAdmin, true)
	owner := testutil.CreateUser(t, ta.usrRepo, "Grace", "Banda", "grace@test.cd", "LolC@t123", user.RoleSchool, true)
	stranger := testutil.CreateUser(t, ta.usrRepo, "Sam", "Mwangi", "sam@test.cd", "LolC@t123", user.RoleSchool, true)

	sch, err := ta.schSvc.Create(context.Background(), school.NewSchool{Name: "Greenfield Academy", Code: owner.Code})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	notFound := marchallObj(t, httpErr{Error: "not found"})
	deptBody := marchallObj(t, school.NewDepartment{Name: "Mathematics"})

	tests := []httpTest{
		{name: "Owner retrieves their school", method: http.MethodGet, token: getToken(t, ta.conf, owner),
			wantCode: http.StatusOK, wantData: marchallObj(t, sch)},
		{name: "Admin retrieves any school", method: http.MethodGet, token: getToken(t, ta.conf, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, sch)},
		{name: "Another school admin is shown nothing", method: http.MethodGet, token: getToken(t, ta.conf, stranger),
			wantCode: http.StatusNotFound, wantData: notFound},
		{name: "Another school admin cannot add departments", method: http.MethodPost, path: "/departments",
			body: deptBody, token: getToken(t, ta.conf, stranger), wantCode: http.StatusNotFound, wantData: notFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, "/v1/schools/"+sch.ID+tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Owner adds a department", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/schools/"+sch.ID+"/departments", getToken(t, ta.conf, owner), deptBody)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		got, err := ta.schSvc.GetByID(context.Background(), sch.ID)
		if err != nil {
			t.Fatalf("GetByID() failed: %v", err)
		}
		if len(got.Departments) != 1 || got.Departments[0].Name != "Mathematics" {
			t.Errorf("departments = %v; want [Mathematics]", got.Departments)
		}
	})
}
