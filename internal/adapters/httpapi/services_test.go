package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/fpr-form/internal/domain"
)

func TestPincodeClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Query().Get("pincode") {
		case "560001":
			w.Write([]byte(`{"statusCode":90,"data":{"cityName":"Bengaluru"}}`))
		default:
			w.Write([]byte(`{"statusCode":91,"data":{}}`))
		}
	}))
	defer srv.Close()

	client := NewPincodeClient(NewClient(time.Second), srv.URL+"/api/pincode")

	res, err := client.LookupPincode(context.Background(), "560001")
	require.NoError(t, err)
	assert.True(t, res.Resolved())
	assert.Equal(t, "Bengaluru", res.CityName)

	res, err = client.LookupPincode(context.Background(), "999999")
	require.NoError(t, err)
	assert.False(t, res.Resolved())
	assert.Equal(t, 91, res.StatusCode)
}

func TestPincodeClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewPincodeClient(NewClient(time.Second), srv.URL).LookupPincode(context.Background(), "560001")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Equal(t, "upstream down", se.Body)
}

func TestVerifyClient(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"statusCode":90,"data":{"referenceId":"REF-9","customerDetails":{"customerFullName":"Asha Rao","dob":"1990-06-15"}}}`))
	}))
	defer srv.Close()

	resp, err := NewVerifyClient(NewClient(time.Second), srv.URL).Verify(context.Background(), domain.VerifyRequest{
		CustomerFullName: "Asha Rao",
		PAN:              "ABCDE1234F",
		DOB:              "1990-06-15",
		LookingFor:       "Personal loan",
	})
	require.NoError(t, err)
	assert.Equal(t, 90, resp.StatusCode)
	assert.Equal(t, "REF-9", resp.Data.ReferenceID)
	assert.Equal(t, "Asha Rao", resp.Data.CustomerDetails.CustomerFullName)

	assert.Equal(t, "ABCDE1234F", got["Pan"])
	assert.Equal(t, "1990-06-15", got["Dob"])
	assert.Equal(t, "Personal loan", got["Iamlookingfor"])
}

func TestVerifyClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewVerifyClient(NewClient(50*time.Millisecond), srv.URL).Verify(context.Background(), domain.VerifyRequest{})
	assert.Error(t, err)
}

func TestConsentClient(t *testing.T) {
	var got consentRequest
	status := 90
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(consentReply{StatusCode: status, Message: "duplicate"})
	}))
	defer srv.Close()

	client := NewConsentClient(NewClient(time.Second), srv.URL)
	err := client.InsertConsent(context.Background(), "9876543210", []string{"TnC-CPR", "EXPERIAN-CPR"}, "Y")
	require.NoError(t, err)
	assert.Equal(t, consentRequest{
		MobileNo:      "9876543210",
		ConsentIDList: []string{"TnC-CPR", "EXPERIAN-CPR"},
		ConsentStatus: "Y",
	}, got)

	status = 95
	err = client.InsertConsent(context.Background(), "9876543210", []string{"TnC-CPR"}, "Y")
	assert.ErrorContains(t, err, "status 95")
}
