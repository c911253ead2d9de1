package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"lyyn/internal/models"
	"lyyn/internal/repositories"
	"lyyn/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 2)

	page2 := []models.Product{{ID: "3", Name: "Blanket C", Price: 1999}}
	mockRepo.On("GetPage", 2, 2, "Blankets").Return(page2, int64(5), nil).Once()

	result, err := service.ListProducts(2, "Blankets")
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, int64(5), result.Total)
	assert.LessOrEqual(t, len(result.Items), 2)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProducts_ClampsPageAndEmptyCatalog(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 0)

	mockRepo.On("GetPage", 1, services.DefaultPageSize, "").Return([]models.Product(nil), int64(0), nil).Once()

	result, err := service.ListProducts(-3, "")
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.Pages)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 12)

	expectedProduct := &models.Product{ID: "1", Name: "Cloud Blanket", Price: 2499}

	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99 %w", repositories.ErrNotFound)).Once()
	product, err = service.GetProductByID("99")
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	mockRepo.AssertExpectations(t)
}

func validCreateRequest() services.CreateProductRequest {
	return services.CreateProductRequest{
		Name:        "Heavyweight Custom Tee",
		Description: "240gsm cotton",
		Price:       999,
		Category:    "Custom Tees",
		Sizes:       []models.SizeStock{{Size: "M", Stock: 5}, {Size: "L", Stock: 2}},
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	images := new(MockImageStore)
	service := services.NewProductService(mockRepo, images, 12)

	images.On("Save", "front.jpg", "image/jpeg", "front").Return("https://cdn/front.jpg", nil).Once()
	images.On("Save", "back.jpg", "image/jpeg", "back").Return("https://cdn/back.jpg", nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(context.Background(), validCreateRequest(), []services.ImageUpload{
		{Filename: "front.jpg", ContentType: "image/jpeg", Body: strings.NewReader("front")},
		{Filename: "back.jpg", ContentType: "image/jpeg", Body: strings.NewReader("back")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/front.jpg", "https://cdn/back.jpg"}, product.Images)
	assert.Equal(t, "heavyweight-custom-tee", product.Slug)
	assert.Equal(t, models.DefaultColors, product.Colors)
	mockRepo.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	mockRepo := new(MockProductRepository)
	images := new(MockImageStore)
	service := services.NewProductService(mockRepo, images, 12)
	oneImage := []services.ImageUpload{{Filename: "a.jpg", Body: strings.NewReader("a")}}

	_, err := service.CreateProduct(context.Background(), validCreateRequest(), nil)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please upload at least one image", verr.Message)

	req := validCreateRequest()
	req.Sizes = append(req.Sizes, models.SizeStock{Size: "m", Stock: 1})
	_, err = service.CreateProduct(context.Background(), req, oneImage)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "more than once")

	req = validCreateRequest()
	req.Sizes[0].Stock = -1
	_, err = service.CreateProduct(context.Background(), req, oneImage)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a valid stock quantity", verr.Message)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_CreateProduct_ImageStoreFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	images := new(MockImageStore)
	service := services.NewProductService(mockRepo, images, 12)

	images.On("Save", "a.jpg", "", "a").Return("", fmt.Errorf("bucket unavailable")).Once()

	_, err := service.CreateProduct(context.Background(), validCreateRequest(), []services.ImageUpload{
		{Filename: "a.jpg", Body: strings.NewReader("a")},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestProductService_CreateProduct_RemovesImagesWhenNotSaved(t *testing.T) {
	mockRepo := new(MockProductRepository)
	images := new(MockImageStore)
	service := services.NewProductService(mockRepo, images, 12)

	images.On("Save", "front.jpg", "", "front").Return("https://cdn/front.jpg", nil).Once()
	images.On("Save", "back.jpg", "", "back").Return("https://cdn/back.jpg", nil).Once()
	images.On("Delete", "https://cdn/front.jpg").Return(nil).Once()
	images.On("Delete", "https://cdn/back.jpg").Return(fmt.Errorf("bucket unavailable")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(fmt.Errorf("failed to create product: disk full")).Once()

	_, err := service.CreateProduct(context.Background(), validCreateRequest(), []services.ImageUpload{
		{Filename: "front.jpg", Body: strings.NewReader("front")},
		{Filename: "back.jpg", Body: strings.NewReader("back")},
	})
	assert.ErrorContains(t, err, "disk full")
	images.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_RemovesEarlierImagesOnUploadFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	images := new(MockImageStore)
	service := services.NewProductService(mockRepo, images, 12)

	images.On("Save", "front.jpg", "", "front").Return("https://cdn/front.jpg", nil).Once()
	images.On("Save", "back.jpg", "", "back").Return("", fmt.Errorf("bucket unavailable")).Once()
	images.On("Delete", "https://cdn/front.jpg").Return(nil).Once()

	_, err := service.CreateProduct(context.Background(), validCreateRequest(), []services.ImageUpload{
		{Filename: "front.jpg", Body: strings.NewReader("front")},
		{Filename: "back.jpg", Body: strings.NewReader("back")},
	})
	assert.Error(t, err)
	images.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 12)

	existing := &models.Product{ID: "1", Name: "Old Tee", Slug: "old-tee", Images: []string{"a.jpg"}, Sizes: []models.SizeStock{{Size: "M", Stock: 0}}}
	mockRepo.On("GetByID", "1").Return(existing, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == "1" && p.StockFor("M") == 7
	})).Return(nil).Once()

	req := services.UpdateProductRequest{
		Name: "Restocked Tee", Description: "cotton", Price: 899, Category: "Standard Tees",
		Sizes: []models.SizeStock{{Size: "M", Stock: 7}},
	}
	product, err := service.UpdateProduct("1", req)
	require.NoError(t, err)
	assert.Equal(t, "restocked-tee", product.Slug)
	assert.Equal(t, []string{"a.jpg"}, product.Images)
	assert.Equal(t, models.DefaultColors, product.Colors)
	mockRepo.AssertExpectations(t)

	req.Sizes = append(req.Sizes, models.SizeStock{Size: "m", Stock: 1})
	_, err = service.UpdateProduct("1", req)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)

	mockRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99 %w", repositories.ErrNotFound)).Once()
	_, err = service.UpdateProduct("99", services.UpdateProductRequest{Name: "Ghost Tee"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, 12)

	mockRepo.On("Delete", "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct("1"))

	mockRepo.On("Delete", "99").Return(fmt.Errorf("product with ID 99 %w for deletion", repositories.ErrNotFound)).Once()
	err := service.DeleteProduct("99")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found for deletion")
	mockRepo.AssertExpectations(t)
}
