/* SPDX-License-Identifier: MPL-2.0
 * Copyright 2025 Tejus Pratap <tejzpr@gmail.com>
 *
 * See CONTRIBUTORS.md for full contributor list.
 */

package callqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jeokrohn/wxc-sdk-sub004/apimodel"
	"github.com/jeokrohn/wxc-sdk-sub004/webexsdk"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, strictness apimodel.Strictness) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := webexsdk.NewClient("test-token", &webexsdk.Config{
		BaseURL:       server.URL,
		Timeout:       5 * time.Second,
		HttpClient:    server.Client(),
		UnknownFields: strictness,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return New(client, nil)
}

func TestList_QueuesKeyAndPaging(t *testing.T) {
	var serverURL string
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/telephony/config/queues" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("start") == "" {
			if r.URL.Query().Get("locationId") != "loc1" {
				t.Errorf("Expected locationId on first request, got %q", r.URL.RawQuery)
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s/telephony/config/queues?locationId=loc1&start=2&max=2>; rel="next"`, serverURL))
			fmt.Fprint(w, `{"queues":[{"id":"q1","name":"Sales","locationId":"loc1","extension":"5001","enabled":true},{"id":"q2","name":"Support","locationId":"loc1"}]}`)
			return
		}
		fmt.Fprint(w, `{"queues":[{"id":"q3","name":"Billing","locationId":"loc1"}]}`)
	}))
	defer server.Close()
	serverURL = server.URL

	core, _ := webexsdk.NewClient("test-token", &webexsdk.Config{BaseURL: server.URL, HttpClient: server.Client()})
	client := New(core, nil)

	var names []string
	for q, err := range client.List(context.Background(), &ListOptions{LocationID: "loc1", Max: 2}) {
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		names = append(names, apimodel.Deref(q.Name))
	}
	if fmt.Sprint(names) != "[Sales Support Billing]" {
		t.Errorf("Unexpected queues %v", names)
	}
}

func TestByName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"queues":[{"id":"q1","name":"Sales EMEA"},{"id":"q2","name":"Sales"}]}`)
	}, apimodel.Allow)

	q, err := client.ByName(context.Background(), "loc1", "Sales", "")
	if err != nil || q == nil || q.ID != "q2" {
		t.Fatalf("Expected q2, got %+v (%v)", q, err)
	}
}

func TestGet_Details(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/telephony/config/locations/loc1/queues/q1" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("orgId") != "org1" {
			t.Errorf("Expected orgId, got %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{
			"id": "q1", "name": "Sales", "extension": "5001", "enabled": true,
			"callPolicies": {"policy": "WEIGHTED", "routingType": "PRIORITY_BASED",
				"callBounce": {"callBounceEnabled": true, "callBounceMaxRings": 5}},
			"queueSettings": {"queueSize": 25, "overflow": {"action": "TRANSFER_TO_PHONE_NUMBER", "transferNumber": "+4930123"}},
			"agents": [{"id": "a1", "firstName": "Ada", "weight": "60", "joinEnabled": true}]
		}`)
	}, apimodel.Forbid)

	q, err := client.Get(context.Background(), "loc1", "q1", "org1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if q.CallPolicies == nil || q.CallPolicies.Policy != PolicyWeighted {
		t.Errorf("Unexpected policies %+v", q.CallPolicies)
	}
	if q.CallPolicies.CallBounce == nil || *q.CallPolicies.CallBounce.CallBounceMaxRings != 5 {
		t.Errorf("Unexpected call bounce %+v", q.CallPolicies.CallBounce)
	}
	if q.QueueSettings.Overflow.Action != OverflowTransferToPhoneNumber {
		t.Errorf("Unexpected overflow %+v", q.QueueSettings.Overflow)
	}
	if len(q.Agents) != 1 || apimodel.Deref(q.Agents[0].Weight) != "60" {
		t.Errorf("Unexpected agents %+v", q.Agents)
	}
}

func TestGet_ForbidRejectsUnknownTopLevelField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"q1","name":"Sales","newFeatureFlag":true}`)
	}, apimodel.Forbid)

	_, err := client.Get(context.Background(), "loc1", "q1", "")
	if err == nil {
		t.Fatal("Expected error for unknown field in strict mode")
	}
}

func TestCreate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/telephony/config/locations/loc1/queues" {
			t.Errorf("Unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "Sales" || body["extension"] != "5001" {
			t.Errorf("Unexpected body %v", body)
		}
		policies, _ := body["callPolicies"].(map[string]any)
		if policies["policy"] != "CIRCULAR" {
			t.Errorf("Expected default circular policy, got %v", policies)
		}
		agents, _ := body["agents"].([]any)
		if len(agents) != 2 {
			t.Errorf("Expected 2 agents, got %v", body["agents"])
		}
		fmt.Fprint(w, `{"id":"q-new"}`)
	}, apimodel.Allow)

	id, err := client.Create(context.Background(), "loc1", NewQueue("Sales", "5001", "a1", "a2"), "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id != "q-new" {
		t.Errorf("Expected 'q-new', got %q", id)
	}
}

func TestCreate_Validation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected")
	}, apimodel.Allow)
	ctx := context.Background()

	tests := []struct {
		name       string
		locationID string
		queue      CallQueue
	}{
		{"no location", "", NewQueue("Sales", "5001")},
		{"no name", "loc1", CallQueue{Extension: apimodel.Ptr("5001")}},
		{"no number or extension", "loc1", CallQueue{Name: apimodel.Ptr("Sales")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := client.Create(ctx, tc.locationID, tc.queue, ""); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/telephony/config/locations/loc1/queues/q1" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodPut:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if len(body) != 1 || body["enabled"] != false {
				t.Errorf("Expected only enabled=false, got %v", body)
			}
		case http.MethodDelete:
		default:
			t.Errorf("Unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}, apimodel.Allow)

	ctx := context.Background()
	disabled := false
	if err := client.Update(ctx, "loc1", "q1", CallQueue{Enabled: &disabled}, ""); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := client.Delete(ctx, "loc1", "q1", ""); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := client.Delete(ctx, "loc1", "", ""); err == nil {
		t.Error("Expected error without queue ID")
	}
}

func TestCreate_TelephonyError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"","errors":[{"description":"[Error 4008] Extension already in use","code":4008}],"trackingId":"TRK"}`)
	}, apimodel.Allow)

	_, err := client.Create(context.Background(), "loc1", NewQueue("Sales", "5001"), "")
	if err == nil {
		t.Fatal("Expected error")
	}
	if got := err.Error(); !strings.Contains(got, "Extension already in use") {
		t.Errorf("Expected telephony description in error, got %q", got)
	}
}


func TestGet_NestedUnknownAndZeroValues(t *testing.T) {
	const payload = `{"id":"q1","name":"Sales","extension":"",` +
		`"callPolicies":{"policy":"CIRCULAR","callBounce":{"callBounceMaxRings":0,"bounceTone":"beep"}},` +
		`"queueSettings":{"queueSize":0,"overflow":{"action":"PERFORM_BUSY_TREATMENT","transferNumber":"","audioFile":"x.wav"}},` +
		`"agents":[{"id":"a1","weight":"0","skillLevel":0,"team":"blue"}]}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}, apimodel.Allow)

	q, err := client.Get(context.Background(), "loc1", "q1", "")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if q.Extension == nil || *q.Extension != "" {
		t.Errorf("Expected empty extension to be kept, got %v", q.Extension)
	}
	if q.QueueSettings.QueueSize == nil || *q.QueueSettings.QueueSize != 0 {
		t.Errorf("Expected queueSize 0 to be kept, got %v", q.QueueSettings.QueueSize)
	}
	if q.Agents[0].Extra["team"] == nil {
		t.Errorf("Expected unknown agent field in Extra, got %v", q.Agents[0].Extra)
	}

	out, err := apimodel.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var want, got any
	_ = json.Unmarshal([]byte(payload), &want)
	_ = json.Unmarshal(out, &got)
	if !reflect.DeepEqual(want, got) {
		t.Errorf("Round trip mismatch\nwant %s\ngot  %s", payload, out)
	}

	strict := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}, apimodel.Forbid)
	_, err = strict.Get(context.Background(), "loc1", "q1", "")
	var unknown *apimodel.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownFieldError, got %v", err)
	}
	expected := []string{"agents[0].team", "callPolicies.callBounce.bounceTone", "queueSettings.overflow.audioFile"}
	if !reflect.DeepEqual(unknown.Fields, expected) {
		t.Errorf("Expected %v, got %v", expected, unknown.Fields)
	}
}

func TestGet_EscapesPathSegments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/telephony/config/locations/loc%2F1/queues/q%3F1" {
			t.Errorf("Unexpected path %s", r.URL.EscapedPath())
		}
		fmt.Fprint(w, `{"id":"q?1"}`)
	}, apimodel.Allow)

	if _, err := client.Get(context.Background(), "loc/1", "q?1", ""); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}
