package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledger-be/internal/auth"
	"github.com/ledgerline/ledger-be/internal/ledger"
	"github.com/ledgerline/ledger-be/internal/models"
	"github.com/ledgerline/ledger-be/internal/storage/jsonfile"
)

type testAPI struct {
	ts       *httptest.Server
	accounts *jsonfile.AccountStore
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	dir := t.TempDir()
	users := jsonfile.NewUserStore(filepath.Join(dir, "users.json"))
	accounts := jsonfile.NewAccountStore(filepath.Join(dir, "accounts.json"))
	tokens := auth.NewTokenManager("test-secret", "test", time.Hour)
	log := slog.New(slog.DiscardHandler)
	svc := ledger.New(users, accounts, tokens, log)

	mux := http.NewServeMux()
	NewHealthHandler(time.Now()).Register(mux)
	NewAuthHandler(svc, tokens, log).Register(mux)
	NewAccountHandler(svc, tokens, log).Register(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return testAPI{ts: ts, accounts: accounts}
}

// call sends a JSON request and decodes the JSON response into a generic map.
func (a testAPI) call(t *testing.T, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func (a testAPI) register(t *testing.T, username, email, password string) (token, userID, accountNumber, accountID string) {
	t.Helper()
	status, body := a.call(t, http.MethodPost, "/register", "", map[string]string{
		"username": username, "email": email, "password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d body %v", username, status, body)
	}
	user := body["user"].(map[string]any)
	account := body["account"].(map[string]any)
	if bal := account["balance"].(float64); bal != 0 {
		t.Fatalf("new account balance = %v, want 0", bal)
	}
	return body["token"].(string), user["id"].(string), account["accountNumber"].(string), account["id"].(string)
}

func (a testAPI) credit(t *testing.T, accountNumber string, amount int64) {
	t.Helper()
	err := a.accounts.UpdateAccounts(context.Background(), func(accounts []*models.Account) error {
		for _, acc := range accounts {
			if acc.AccountNumber == accountNumber {
				acc.Balance = acc.Balance.Add(decimal.NewFromInt(amount))
				return nil
			}
		}
		return fmt.Errorf("account %s not found", accountNumber)
	})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
}

func TestAPI_RegisterLoginTransferScenario(t *testing.T) {
	api := newTestAPI(t)

	aliceToken, _, aliceNum, aliceAccID := api.register(t, "alice", "alice@x.com", "pw123")
	_, _, bobNum, _ := api.register(t, "bob", "bob@x.com", "pw456")

	// Duplicate registration conflicts.
	status, _ := api.call(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "alice2@x.com", "password": "pw123",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", status)
	}

	// Login works and bad credentials fail without detail.
	status, body := api.call(t, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "pw123",
	})
	if status != http.StatusOK || body["token"] == "" {
		t.Fatalf("login status = %d body %v", status, body)
	}
	status, _ = api.call(t, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", status)
	}

	// Transfers are gated on the transfer password being set.
	status, body = api.call(t, http.MethodPost, "/accounts/transfer", aliceToken, map[string]any{
		"fromAccountNumber": aliceNum, "toAccountNumber": bobNum,
		"transfer_password": "1234", "amount": 50,
	})
	if status != http.StatusUnauthorized || body["code"] != "P404" {
		t.Fatalf("transfer before setup: status %d body %v", status, body)
	}

	status, _ = api.call(t, http.MethodPost, "/accounts/set_transfer_password", aliceToken, map[string]string{
		"accountNumber": aliceNum, "transfer_password": "1234",
	})
	if status != http.StatusOK {
		t.Fatalf("set_transfer_password status = %d", status)
	}

	// Wrong transfer password: 401 with code P401, balances untouched.
	status, body = api.call(t, http.MethodPost, "/accounts/transfer", aliceToken, map[string]any{
		"fromAccountNumber": aliceNum, "toAccountNumber": bobNum,
		"transfer_password": "9999", "amount": 50,
	})
	if status != http.StatusUnauthorized || body["code"] != "P401" {
		t.Fatalf("wrong password transfer: status %d body %v", status, body)
	}

	// Same account on both sides is rejected outright.
	status, _ = api.call(t, http.MethodPost, "/accounts/transfer", aliceToken, map[string]any{
		"fromAccountNumber": aliceNum, "toAccountNumber": aliceNum,
		"transfer_password": "1234", "amount": 50,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("same-account transfer status = %d, want 400", status)
	}

	// Balance 0 < 50: insufficient funds.
	status, _ = api.call(t, http.MethodPost, "/accounts/transfer", aliceToken, map[string]any{
		"fromAccountNumber": aliceNum, "toAccountNumber": bobNum,
		"transfer_password": "1234", "amount": 50,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("insufficient funds status = %d, want 400", status)
	}

	// After a 100 credit the same transfer settles both sides at 50.
	api.credit(t, aliceNum, 100)
	status, body = api.call(t, http.MethodPost, "/accounts/transfer", aliceToken, map[string]any{
		"fromAccountNumber": aliceNum, "toAccountNumber": bobNum,
		"transfer_password": "1234", "amount": 50,
	})
	if status != http.StatusOK {
		t.Fatalf("transfer status = %d body %v", status, body)
	}
	from := body["fromAccount"].(map[string]any)
	to := body["toAccount"].(map[string]any)
	if from["balance"].(float64) != 50 || to["balance"].(float64) != 50 {
		t.Fatalf("balances after transfer: from %v to %v", from["balance"], to["balance"])
	}

	// Balance read reflects the committed state.
	status, body = api.call(t, http.MethodGet, "/accounts/"+aliceAccID+"/balance", aliceToken, nil)
	if status != http.StatusOK || body["balance"].(float64) != 50 {
		t.Fatalf("balance read: status %d body %v", status, body)
	}
}

func TestAPI_BalanceOwnership(t *testing.T) {
	api := newTestAPI(t)

	_, _, _, aliceAccID := api.register(t, "alice", "alice@x.com", "pw123")
	bobToken, _, _, _ := api.register(t, "bob", "bob@x.com", "pw456")

	status, _ := api.call(t, http.MethodGet, "/accounts/"+aliceAccID+"/balance", bobToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("cross-user balance read status = %d, want 403", status)
	}

	status, _ = api.call(t, http.MethodGet, "/accounts/missing/balance", bobToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("missing account balance status = %d, want 404", status)
	}
}

func TestAPI_AccountByUser(t *testing.T) {
	api := newTestAPI(t)

	aliceToken, aliceID, aliceNum, _ := api.register(t, "alice", "alice@x.com", "pw123")

	status, body := api.call(t, http.MethodGet, "/accounts/"+aliceID, aliceToken, nil)
	if status != http.StatusOK || body["accountNumber"] != aliceNum {
		t.Fatalf("account by user: status %d body %v", status, body)
	}
	if _, leaked := body["transfer_password"]; leaked {
		t.Fatal("account response leaked the transfer password field")
	}

	status, _ = api.call(t, http.MethodGet, "/accounts/no-such-user", aliceToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("unknown user lookup status = %d, want 404", status)
	}
}

func TestAPI_AuthLifecycle(t *testing.T) {
	api := newTestAPI(t)

	token, userID, _, _ := api.register(t, "alice", "alice@x.com", "pw123")

	// Protected routes demand a token.
	status, _ := api.call(t, http.MethodGet, "/me", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated /me status = %d, want 401", status)
	}

	status, body := api.call(t, http.MethodGet, "/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("/me status = %d", status)
	}
	if user := body["user"].(map[string]any); user["id"] != userID {
		t.Fatalf("/me returned wrong user: %v", user)
	}

	// Logout revokes the token for every subsequent request.
	status, _ = api.call(t, http.MethodPost, "/logout", token, nil)
	if status != http.StatusOK {
		t.Fatalf("logout status = %d", status)
	}
	status, _ = api.call(t, http.MethodGet, "/me", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("/me after logout status = %d, want 401", status)
	}
}

func TestAPI_ChangeAndVerifyTransferPassword(t *testing.T) {
	api := newTestAPI(t)

	token, _, num, _ := api.register(t, "alice", "alice@x.com", "pw123")

	// Changing before setting reports the machine-readable not-set code.
	status, body := api.call(t, http.MethodPost, "/accounts/change_transfer_password", token, map[string]string{
		"accountNumber": num, "old_transfer_password": "1234", "new_transfer_password": "5678",
	})
	if status != http.StatusUnauthorized || body["code"] != "P404" {
		t.Fatalf("change before set: status %d body %v", status, body)
	}

	status, _ = api.call(t, http.MethodPost, "/accounts/set_transfer_password", token, map[string]string{
		"accountNumber": num, "transfer_password": "1234",
	})
	if status != http.StatusOK {
		t.Fatalf("set status = %d", status)
	}

	status, body = api.call(t, http.MethodPost, "/accounts/verify_transfer_password", token, map[string]string{
		"accountNumber": num, "transfer_password": "1234",
	})
	if status != http.StatusOK || body["valid"] != true {
		t.Fatalf("verify correct: status %d body %v", status, body)
	}
	status, body = api.call(t, http.MethodPost, "/accounts/verify_transfer_password", token, map[string]string{
		"accountNumber": num, "transfer_password": "0000",
	})
	if status != http.StatusOK || body["valid"] != false {
		t.Fatalf("verify wrong: status %d body %v", status, body)
	}

	status, _ = api.call(t, http.MethodPost, "/accounts/change_transfer_password", token, map[string]string{
		"accountNumber": num, "old_transfer_password": "1234", "new_transfer_password": "1234",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("change to same password status = %d, want 401", status)
	}

	status, _ = api.call(t, http.MethodPost, "/accounts/change_transfer_password", token, map[string]string{
		"accountNumber": num, "old_transfer_password": "1234", "new_transfer_password": "5678",
	})
	if status != http.StatusOK {
		t.Fatalf("change status = %d", status)
	}
	status, body = api.call(t, http.MethodPost, "/accounts/verify_transfer_password", token, map[string]string{
		"accountNumber": num, "transfer_password": "1234",
	})
	if status != http.StatusOK || body["valid"] != false {
		t.Fatalf("old password still verifies: status %d body %v", status, body)
	}

	// Non-numeric or short passwords are invalid input.
	status, _ = api.call(t, http.MethodPost, "/accounts/set_transfer_password", token, map[string]string{
		"accountNumber": num, "transfer_password": "12a",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("invalid password format status = %d, want 400", status)
	}
}

func TestAPI_TransferMissingAmount(t *testing.T) {
	api := newTestAPI(t)

	token, _, num, _ := api.register(t, "alice", "alice@x.com", "pw123")
	_, _, bobNum, _ := api.register(t, "bob", "bob@x.com", "pw456")

	status, _ := api.call(t, http.MethodPost, "/accounts/transfer", token, map[string]any{
		"fromAccountNumber": num, "toAccountNumber": bobNum, "transfer_password": "1234",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("missing amount status = %d, want 400", status)
	}
}
