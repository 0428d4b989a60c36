package gormstore

import (
	"context"

	"github.com/Jaypurnwasi/RestaurantApp/models"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *models.User) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	if u.ID == "" {
		u.ID = models.NewID()
	}
	return translate(db.Create(u).Error, "create user")
}

func (r userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var u models.User
	if err := db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var u models.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return &u, nil
}

func (r userRepo) Update(ctx context.Context, u *models.User) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	return affected(db.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"profile_image": u.ProfileImage,
		"role":          u.Role,
	}), "update user")
}

func (r userRepo) Delete(ctx context.Context, id string) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	return affected(db.Where("id = ?", id).Delete(&models.User{}), "delete user")
}

func (r userRepo) ListByRoles(ctx context.Context, roles ...models.UserRole) ([]models.User, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var users []models.User
	err := db.Where("role IN ?", roles).Order("created_at").Find(&users).Error
	return users, translate(err, "list users")
}

func (r userRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var n int64
	err := db.Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, translate(err, "count users")
}
