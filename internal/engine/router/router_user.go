package router

import (
	"strconv"

	"github.com/go-pancake/pancake/internal/engine/consts"
	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_user.go
 * @description: user management router
 */

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/system/user", auth)
	{
		userGroup.Get("/getUserList", middleware.RequirePermission(rt.permService, "sys:user:list"), rt.getUserList)
		userGroup.Post("/addUser", middleware.RequirePermission(rt.permService, "sys:user:add"), rt.addUser)
		userGroup.Put("/updateUser/:id", middleware.RequirePermission(rt.permService, "sys:user:update"), rt.updateUser)
		userGroup.Delete("/deleteUser/:id", middleware.RequirePermission(rt.permService, "sys:user:delete"), rt.deleteUser)
		userGroup.Post("/batchDelete", middleware.RequirePermission(rt.permService, "sys:user:delete"), rt.batchDeleteUsers)
	}
}

// parseIdParam 路径参数中的十进制 ID
func parseIdParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func parseIdList(ids []string) ([]int64, bool) {
	out := make([]int64, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

func (rt *Router) getUserList(c *fiber.Ctx) error {
	var req model.UserListReq
	if err := c.QueryParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	result, err := rt.userService.GetUserList(c.Context(), &req)
	if err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.DETAIL, result)
	return nil
}

func (rt *Router) addUser(c *fiber.Ctx) error {
	var req model.AddUserReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}
	if req.Username == "" || req.Password == "" {
		return http.WithRepErrMsg(c, http.UsernameArePasswordIsRequired.Code, http.UsernameArePasswordIsRequired.Msg, c.Path())
	}

	if err := rt.userService.AddUser(c.Context(), &req); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) updateUser(c *fiber.Ctx) error {
	userId, ok := parseIdParam(c)
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	var req model.UpdateUserReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	if err := rt.userService.UpdateUser(c.Context(), userId, &req); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) deleteUser(c *fiber.Ctx) error {
	userId, ok := parseIdParam(c)
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	if err := rt.userService.DeleteUser(c.Context(), userId); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) batchDeleteUsers(c *fiber.Ctx) error {
	var req model.BatchDeleteReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	userIds, ok := parseIdList(req.Ids)
	if !ok || len(userIds) == 0 {
		return http.WithRepErrMsg(c, http.BadRequest.Code, http.BadRequest.Msg, c.Path())
	}

	current, ok := middleware.CurrentUser(c)
	if !ok {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}

	if err := rt.userService.BatchDeleteUsers(c.Context(), userIds, current.ID); err != nil {
		return replyServiceError(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}
