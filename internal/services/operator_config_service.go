package services

import (
	"errors"
	"fmt"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"gorm.io/gorm"
)

// Operator-config stores: top-up pricing, payment methods and contact info.
// Each seeds defaults on first run so a fresh install is usable immediately.

type TopupService struct {
	db *gorm.DB
}

func NewTopupService(db *gorm.DB) *TopupService {
	return &TopupService{db: db}
}

func (s *TopupService) SeedDefaults() error {
	var count int64
	if err := s.db.Model(&models.TopupOption{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count topup options: %w", err)
	}
	if count > 0 {
		return nil
	}
	defaults := []models.TopupOption{
		{Credits: 100, PriceMMK: 10000, IsActive: true},
		{Credits: 200, PriceMMK: 19000, IsActive: true},
		{Credits: 300, PriceMMK: 28500, IsActive: true},
		{Credits: 500, PriceMMK: 46000, IsActive: true},
	}
	return s.db.Create(&defaults).Error
}

func (s *TopupService) ListActive() ([]models.TopupOption, error) {
	var options []models.TopupOption
	err := s.db.Where("is_active = ?", true).Order("credits ASC").Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list topup options: %w", err)
	}
	return options, nil
}

func (s *TopupService) List() ([]models.TopupOption, error) {
	var options []models.TopupOption
	if err := s.db.Order("credits ASC").Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to list topup options: %w", err)
	}
	return options, nil
}

func (s *TopupService) Get(id uint) (*models.TopupOption, error) {
	var option models.TopupOption
	if err := s.db.First(&option, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("topup option %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load topup option: %w", err)
	}
	return &option, nil
}

// FindByCredits resolves a user's selected top-up amount to its quoted price.
func (s *TopupService) FindByCredits(credits int) (*models.TopupOption, error) {
	var option models.TopupOption
	err := s.db.Where("credits = ? AND is_active = ?", credits, true).First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("topup option %d credits: %w", credits, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load topup option: %w", err)
	}
	return &option, nil
}

func (s *TopupService) Create(option *models.TopupOption) error {
	if err := s.db.Create(option).Error; err != nil {
		return fmt.Errorf("failed to create topup option: %w", err)
	}
	return nil
}

func (s *TopupService) Update(option *models.TopupOption) error {
	result := s.db.Model(&models.TopupOption{}).
		Where("id = ?", option.ID).
		Updates(map[string]interface{}{
			"credits":   option.Credits,
			"price_mmk": option.PriceMMK,
			"is_active": option.IsActive,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update topup option: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("topup option %d: %w", option.ID, ErrNotFound)
	}
	return nil
}

func (s *TopupService) Delete(id uint) error {
	result := s.db.Delete(&models.TopupOption{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete topup option: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("topup option %d: %w", id, ErrNotFound)
	}
	return nil
}

type PaymentMethodService struct {
	db *gorm.DB
}

func NewPaymentMethodService(db *gorm.DB) *PaymentMethodService {
	return &PaymentMethodService{db: db}
}

func (s *PaymentMethodService) SeedDefaults() error {
	var count int64
	if err := s.db.Model(&models.PaymentMethod{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count payment methods: %w", err)
	}
	if count > 0 {
		return nil
	}
	defaults := []models.PaymentMethod{
		{Name: "KBZ Pay", Description: "KBZ Bank mobile payment", IsActive: true},
		{Name: "Wave Money", Description: "Wave Money mobile payment", IsActive: true},
		{Name: "AYA Pay", Description: "AYA Bank mobile payment", IsActive: true},
		{Name: "Cash Deposit", Description: "Cash deposit to bank account", IsActive: true},
	}
	return s.db.Create(&defaults).Error
}

func (s *PaymentMethodService) ListActive() ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&methods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

func (s *PaymentMethodService) List() ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := s.db.Order("name ASC").Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

func (s *PaymentMethodService) Create(method *models.PaymentMethod) error {
	if err := s.db.Create(method).Error; err != nil {
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

func (s *PaymentMethodService) Update(method *models.PaymentMethod) error {
	result := s.db.Model(&models.PaymentMethod{}).
		Where("id = ?", method.ID).
		Updates(map[string]interface{}{
			"name":        method.Name,
			"description": method.Description,
			"is_active":   method.IsActive,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment method: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment method %d: %w", method.ID, ErrNotFound)
	}
	return nil
}

func (s *PaymentMethodService) Delete(id uint) error {
	result := s.db.Delete(&models.PaymentMethod{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment method: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment method %d: %w", id, ErrNotFound)
	}
	return nil
}

type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

func (s *ContactService) SeedDefaults() error {
	var count int64
	if err := s.db.Model(&models.ContactConfig{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count contact config: %w", err)
	}
	if count > 0 {
		return nil
	}
	defaults := []models.ContactConfig{
		{ContactType: "telegram", ContactValue: "@VPNSupportBot", IsActive: true, DisplayOrder: 1},
		{ContactType: "telegram_admin", ContactValue: "@AdminUsername", IsActive: true, DisplayOrder: 2},
		{ContactType: "email", ContactValue: "support@vpnservice.com", IsActive: true, DisplayOrder: 3},
		{ContactType: "phone", ContactValue: "+95-XXX-XXX-XXXX", IsActive: true, DisplayOrder: 4},
		{ContactType: "website", ContactValue: "https://vpnservice.com", IsActive: true, DisplayOrder: 5},
		{ContactType: "response_time", ContactValue: "Within 2 hours", IsActive: true, DisplayOrder: 6},
		{ContactType: "business_hours", ContactValue: "Monday - Friday: 9:00 AM - 6:00 PM (UTC)", IsActive: true, DisplayOrder: 7},
	}
	return s.db.Create(&defaults).Error
}

func (s *ContactService) ListActive() ([]models.ContactConfig, error) {
	var contacts []models.ContactConfig
	err := s.db.Where("is_active = ?", true).
		Order("display_order ASC, contact_type ASC").
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) List() ([]models.ContactConfig, error) {
	var contacts []models.ContactConfig
	err := s.db.Order("display_order ASC, contact_type ASC").Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) Update(contact *models.ContactConfig) error {
	result := s.db.Model(&models.ContactConfig{}).
		Where("id = ?", contact.ID).
		Updates(map[string]interface{}{
			"contact_value": contact.ContactValue,
			"is_active":     contact.IsActive,
			"display_order": contact.DisplayOrder,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contact %d: %w", contact.ID, ErrNotFound)
	}
	return nil
}
