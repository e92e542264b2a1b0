package gateways

import (
	"eduledger/models"

	"gorm.io/gorm"
)

// DbIdentity answers identity questions from the platform user table
type DbIdentity struct {
	Db *gorm.DB
}

func NewDbIdentity(db *gorm.DB) *DbIdentity {
	return &DbIdentity{Db: db}
}

func (g *DbIdentity) IsRegistered(userID uint) bool {
	var count int64
	g.Db.Model(&models.User{}).Where("id = ? AND is_deleted = ?", userID, false).Count(&count)
	return count > 0
}

func (g *DbIdentity) HasRole(userID uint, roles ...string) bool {
	var user models.User
	if err := g.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return false
	}
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}

func (g *DbIdentity) VotingWeight(userID uint) uint64 {
	var user models.User
	if err := g.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return 0
	}
	return user.Reputation
}

func (g *DbIdentity) TotalVotingWeight() uint64 {
	var total *uint64
	g.Db.Model(&models.User{}).Where("is_deleted = ?", false).
		Select("SUM(reputation)").Scan(&total)
	if total == nil {
		return 0
	}
	return *total
}
