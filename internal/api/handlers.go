package api

import (
	"io"
	"net/http"

	"github.com/safar/jewelry-store/internal/database"
	"github.com/safar/jewelry-store/internal/models"
	"github.com/safar/jewelry-store/internal/schema"
	"github.com/safar/jewelry-store/internal/store"
)

const maxBodyBytes = 1 << 20

func handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Gothic Jewellery Store Backend"})
}

func handleHello(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Gothic Jewellery API"})
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"collections": schema.DescribeAll()})
}

func handleCollectionSchema(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("collection")
	for _, k := range models.Kinds {
		if k.Collection() != name {
			continue
		}
		if s, ok := schema.Describe(k); ok {
			respondJSON(w, http.StatusOK, s)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Unknown collection: "+name)
}

func handleListProducts(db database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r)
		if !ok {
			return
		}

		var filter store.ProductFilter
		if err := schema.Decode(body, &filter); err != nil {
			respondFailure(w, err)
			return
		}

		products, err := store.ListProducts(r.Context(), db, filter)
		if err != nil {
			respondFailure(w, err)
			return
		}

		respondJSON(w, http.StatusOK, products)
	}
}

func handleCreateProduct(db database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r)
		if !ok {
			return
		}

		var product models.JewelryProduct
		if err := schema.Decode(body, &product); err != nil {
			respondFailure(w, err)
			return
		}

		id, err := store.CreateProduct(r.Context(), db, &product)
		if err != nil {
			respondFailure(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"_id": id})
	}
}

func handleCreateOrder(db database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r)
		if !ok {
			return
		}

		var order models.Order
		if err := schema.Decode(body, &order); err != nil {
			respondFailure(w, err)
			return
		}

		id, err := store.CreateOrder(r.Context(), db, &order)
		if err != nil {
			respondFailure(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"order_id": id})
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return body, true
}
