package controllers

import (
	"context"
	"fmt"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql/dao"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
)

type UserController struct {
	dao *dao.UserDAO
}

func NewUserController(userDAO *dao.UserDAO) *UserController {
	return &UserController{dao: userDAO}
}

func (c *UserController) GetUser(ctx context.Context, id string) (*types.User, error) {
	user, err := c.dao.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return &types.User{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	}, nil
}

func (c *UserController) UpdateUser(ctx context.Context, id string, req types.UpdateUserRequest) (*types.User, error) {
	user, err := c.dao.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if err := c.dao.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return &types.User{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	}, nil
}
