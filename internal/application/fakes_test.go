package application

import (
	"context"
	"sync"

	"commerce-sync-bridge/internal/domain"
)

// fakeRemoteAPI records calls and keeps created products in memory
type fakeRemoteAPI struct {
	mu        sync.Mutex
	nextID    string
	products  map[string]*domain.RemoteProduct
	getErr    error
	createErr error
	updateErr error

	getCalls    int
	createCalls int
	updateCalls int
	lastUpdate  domain.ProductParams
}

func newFakeRemoteAPI(nextID string) *fakeRemoteAPI {
	return &fakeRemoteAPI{
		nextID:   nextID,
		products: map[string]*domain.RemoteProduct{},
	}
}

func remoteFromParams(productID string, params domain.ProductParams) *domain.RemoteProduct {
	product := &domain.RemoteProduct{
		ProductID:  productID,
		Name:       params.Name,
		URL:        params.URL,
		ExternalID: params.ExternalID,
	}
	for _, v := range params.Variants {
		product.Variants = append(product.Variants, domain.RemoteVariant{
			VariantID:  "rv-" + v.ExternalID,
			ExternalID: v.ExternalID,
			Name:       v.Name,
			SKU:        v.SKU,
			Price:      v.Price,
			PriceTax:   v.PriceTax,
			Quantity:   v.Quantity,
		})
	}
	return product
}

func (f *fakeRemoteAPI) GetProduct(_ context.Context, _ string, productID string) (*domain.RemoteProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	product, ok := f.products[productID]
	if !ok {
		return &domain.RemoteProduct{}, nil
	}
	clone := *product
	return &clone, nil
}

func (f *fakeRemoteAPI) CreateProduct(_ context.Context, _ string, params domain.ProductParams) (*domain.RemoteProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	product := remoteFromParams(f.nextID, params)
	f.products[product.ProductID] = product
	return product, nil
}

func (f *fakeRemoteAPI) UpdateProduct(_ context.Context, _ string, productID string, params domain.ProductParams) (*domain.RemoteProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastUpdate = params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	product := remoteFromParams(productID, params)
	f.products[productID] = product
	return product, nil
}

// countingMetrics implements both metrics ports
type countingMetrics struct {
	mu           sync.Mutex
	remoteCalls  map[string]int
	skipped      int
	hits, misses int
	updates      int
	failures     int
	adBlocks     int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{remoteCalls: map[string]int{}}
}

func (m *countingMetrics) ObserveRemoteCall(operation string, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remoteCalls[operation]++
}

func (m *countingMetrics) IncUpdateSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped++
}

func (m *countingMetrics) IncCacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *countingMetrics) ObserveScriptUpdate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.failures++
		return
	}
	m.updates++
}

func (m *countingMetrics) IncAdBlockDetection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adBlocks++
}
