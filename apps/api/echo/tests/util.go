package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/eduverse/lms/apps/api/echo"
	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/analytics"
	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/core/course"
	"github.com/eduverse/lms/core/live"
	"github.com/eduverse/lms/core/school"
	"github.com/eduverse/lms/core/user"
	emailsvc "github.com/eduverse/lms/services/email"
	"github.com/eduverse/lms/storage/blob"
	dummydb "github.com/eduverse/lms/storage/database/dummy"
	"github.com/eduverse/lms/storage/roster"
	testutil "github.com/eduverse/lms/tests"
)

var errMissingToken = httpErr{Error: "user not authenticated"}

type testApp struct {
	conf *core.Config
	app  echoapi.Server

	usrRepo user.Repository
	usrSvc  user.ServiceInterface
	schSvc  *school.Service
	crsSvc  *course.Service
	asgSvc  *assignment.Service
	liveSvc *live.Service
}

func setup(t *testing.T) *testApp {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	conf := testutil.NewConfig()
	usrRepo := dummydb.NewUserRepository(db)

	// set up services
	logger := nopLogger{}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	schSvc := school.NewService(dummydb.NewSchoolRepository(db))
	crsSvc := course.NewService(dummydb.NewCourseRepository(db))
	asgSvc := assignment.NewService(conf, dummydb.NewAssignmentRepository(db), blob.NewLocalStore(t.TempDir()), logger)
	liveSvc := live.NewService(dummydb.NewLiveRepository(db), roster.NewMemoryStore(), logger)
	statsSvc := analytics.NewService(usrSvc, schSvc, crsSvc, asgSvc)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up server
	app := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			UserSvc:       usrSvc,
			SchoolSvc:     schSvc,
			CourseSvc:     crsSvc,
			AssignmentSvc: asgSvc,
			LiveSvc:       liveSvc,
			AnalyticsSvc:  statsSvc,
		},
	)

	return &testApp{
		conf:    conf,
		app:     app,
		usrRepo: usrRepo,
		usrSvc:  usrSvc,
		schSvc:  schSvc,
		crsSvc:  crsSvc,
		asgSvc:  asgSvc,
		liveSvc: liveSvc,
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	claims := echoapi.GetUserClaims(conf, usr)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
