package testutil

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (b *Backend) mountAuth() {
	b.router.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		email, _ := body["email"].(string)
		password, _ := body["password"].(string)

		b.mu.Lock()
		defer b.mu.Unlock()
		entry, ok := b.users[email]
		if !ok || entry.password != password {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		token := uuid.New().String()
		b.tokens[token] = email

		resp := Record{"token": token}
		for k, v := range entry.session {
			resp[k] = v
		}
		writeJSON(w, http.StatusOK, resp)
	}).Methods(http.MethodPost)

	b.router.HandleFunc("/api/users/register", func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		email, _ := body["email"].(string)
		password, _ := body["password"].(string)
		if email == "" || password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if _, exists := b.users[email]; exists {
			writeError(w, http.StatusBadRequest, "user already exists")
			return
		}
		session := Record{"_id": uuid.New().String(), "email": email}
		if name, _ := body["name"].(string); name != "" {
			session["name"] = name
		}
		b.users[email] = &userEntry{password: password, session: session}

		token := uuid.New().String()
		b.tokens[token] = email

		resp := Record{"token": token}
		for k, v := range session {
			resp[k] = v
		}
		writeJSON(w, http.StatusCreated, resp)
	}).Methods(http.MethodPost)

	b.router.HandleFunc("/api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		email, ok := b.requestUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		body, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		entry := b.users[email]
		for k, v := range body {
			if k == "password" {
				if pw, _ := v.(string); pw != "" {
					entry.password = pw
				}
				continue
			}
			entry.session[k] = v
		}
		writeJSON(w, http.StatusOK, entry.session)
	}).Methods(http.MethodPut)
}

// requestUser resolves the bearer token to the logged-in user's email.
func (b *Backend) requestUser(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.tokens[header[len(prefix):]]
	return email, ok
}

func (b *Backend) mountCart() {
	b.router.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]interface{}{"items": b.cart})
		case http.MethodDelete:
			b.cart = nil
			writeJSON(w, http.StatusOK, map[string]interface{}{"items": []Record{}})
		}
	}).Methods(http.MethodGet, http.MethodDelete)

	b.router.HandleFunc("/api/cart/items", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		item, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		id, _ := item["productId"].(string)

		b.mu.Lock()
		defer b.mu.Unlock()
		replaced := false
		for i, existing := range b.cart {
			if pid, _ := existing["productId"].(string); pid == id {
				b.cart[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			b.cart = append(b.cart, item)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": b.cart})
	}).Methods(http.MethodPost)

	b.router.HandleFunc("/api/cart/items/{productID}", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		id := mux.Vars(r)["productID"]
		switch r.Method {
		case http.MethodPut:
			patch, err := decodeRecord(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			qty, _ := patch["quantity"].(float64)

			b.mu.Lock()
			defer b.mu.Unlock()
			for i, item := range b.cart {
				if pid, _ := item["productId"].(string); pid == id {
					b.cart[i]["quantity"] = qty
					writeJSON(w, http.StatusOK, map[string]interface{}{"items": b.cart})
					return
				}
			}
			writeError(w, http.StatusNotFound, "item not in cart")
		case http.MethodDelete:
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, item := range b.cart {
				if pid, _ := item["productId"].(string); pid == id {
					b.cart = append(b.cart[:i], b.cart[i+1:]...)
					break
				}
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"items": b.cart})
		}
	}).Methods(http.MethodPut, http.MethodDelete)
}

func (b *Backend) mountWishlist() {
	b.router.HandleFunc("/api/wishlist", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": b.wishlist})
	}).Methods(http.MethodGet)

	b.router.HandleFunc("/api/wishlist/items", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		item, err := decodeRecord(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		id, _ := item["productId"].(string)

		b.mu.Lock()
		defer b.mu.Unlock()
		for _, existing := range b.wishlist {
			if pid, _ := existing["productId"].(string); pid == id {
				writeJSON(w, http.StatusOK, map[string]interface{}{"items": b.wishlist})
				return
			}
		}
		b.wishlist = append(b.wishlist, item)
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": b.wishlist})
	}).Methods(http.MethodPost)

	b.router.HandleFunc("/api/wishlist/items/{productID}", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		id := mux.Vars(r)["productID"]

		b.mu.Lock()
		defer b.mu.Unlock()
		for i, item := range b.wishlist {
			if pid, _ := item["productId"].(string); pid == id {
				b.wishlist = append(b.wishlist[:i], b.wishlist[i+1:]...)
				break
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": b.wishlist})
	}).Methods(http.MethodDelete)
}

func (b *Backend) mountOrders() {
	b.router.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		switch r.Method {
		case http.MethodGet:
			b.mu.Lock()
			defer b.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": b.orders})
		case http.MethodPost:
			body, err := decodeRecord(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			items, _ := body["orderItems"].([]interface{})
			if len(items) == 0 {
				writeError(w, http.StatusBadRequest, "no order items")
				return
			}

			// The server computes totals from line items; client-sent
			// totals are ignored.
			var itemsPrice float64
			for _, raw := range items {
				item, _ := raw.(map[string]interface{})
				price, _ := item["price"].(float64)
				qty, _ := item["quantity"].(float64)
				itemsPrice += price * qty
			}
			taxPrice := itemsPrice * 18 / 100

			order := Record{
				"_id":             uuid.New().String(),
				"orderItems":      items,
				"shippingAddress": body["shippingAddress"],
				"paymentMethod":   body["paymentMethod"],
				"itemsPrice":      itemsPrice,
				"taxPrice":        taxPrice,
				"totalPrice":      itemsPrice + taxPrice,
				"isPaid":          false,
			}

			b.mu.Lock()
			b.orders = append(b.orders, order)
			b.mu.Unlock()

			writeJSON(w, http.StatusCreated, order)
		}
	}).Methods(http.MethodGet, http.MethodPost)

	b.router.HandleFunc("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeError(w, http.StatusUnauthorized, "not authorised, no token")
			return
		}
		id := mux.Vars(r)["id"]

		b.mu.Lock()
		defer b.mu.Unlock()
		for _, order := range b.orders {
			if recordID(order) == id {
				writeJSON(w, http.StatusOK, order)
				return
			}
		}
		writeError(w, http.StatusNotFound, "order not found")
	}).Methods(http.MethodGet)
}

func (b *Backend) mountPayments() {
	for _, provider := range []struct {
		name string
		path string
	}{
		{"gateway", "/api/payments/gateway"},
		{"wallet", "/api/payments/wallet"},
		{"card", "/api/payments/card"},
	} {
		provider := provider

		b.router.HandleFunc(provider.path+"/session", func(w http.ResponseWriter, r *http.Request) {
			if !b.authorized(r) {
				writeError(w, http.StatusUnauthorized, "not authorised, no token")
				return
			}
			body, err := decodeRecord(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			orderID, _ := body["orderId"].(string)
			amount, _ := body["amount"].(float64)
			receipt, _ := body["receipt"].(string)
			if orderID == "" || amount <= 0 {
				writeError(w, http.StatusBadRequest, "invalid payment request")
				return
			}

			reference := uuid.New().String()
			b.mu.Lock()
			b.sessions[reference] = paymentSession{provider: provider.name, orderID: orderID, receipt: receipt}
			b.mu.Unlock()

			writeJSON(w, http.StatusOK, Record{
				"reference": reference,
				"amount":    amount,
				"currency":  "INR",
			})
		}).Methods(http.MethodPost)

		b.router.HandleFunc(provider.path+"/verify", func(w http.ResponseWriter, r *http.Request) {
			if !b.authorized(r) {
				writeError(w, http.StatusUnauthorized, "not authorised, no token")
				return
			}
			body, err := decodeRecord(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			reference, _ := body["reference"].(string)

			b.mu.Lock()
			defer b.mu.Unlock()
			sess, ok := b.sessions[reference]
			if !ok || sess.provider != provider.name {
				writeError(w, http.StatusBadRequest, "payment verification failed")
				return
			}
			for i, order := range b.orders {
				if recordID(order) == sess.orderID {
					b.orders[i]["isPaid"] = true
					break
				}
			}
			writeJSON(w, http.StatusOK, Record{"status": "captured", "reference": reference})
		}).Methods(http.MethodPost)
	}
}
