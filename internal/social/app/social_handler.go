package app

import (
	rtdomain "wayfare/internal/realtime/domain"
	"wayfare/pkg/logger"
	"wayfare/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SocialHandler handles the social write endpoints (the dispatch call-sites)
// and the recovery reads
type SocialHandler struct {
	messageUC *MessageUseCase
	notifUC   *NotificationUseCase
}

// NewSocialHandler create SocialHandler
func NewSocialHandler(messageUC *MessageUseCase, notifUC *NotificationUseCase) *SocialHandler {
	return &SocialHandler{
		messageUC: messageUC,
		notifUC:   notifUC,
	}
}

func localUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	return userID
}

// SendMessage persist a chat message and fan it out
// @Summary Send a chat message
// @Tags Messages
// @Accept json
// @Produce json
// @Router /messages [post]
func (h *SocialHandler) SendMessage(c *fiber.Ctx) error {
	type request struct {
		ReceiverID   string `json:"receiverId"`
		MessageType  string `json:"messageType"`
		Message      string `json:"message"`
		SharedPostID string `json:"sharedPost"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	msg, err := h.messageUC.Send(c.Context(), localUserID(c), req.ReceiverID, MessageBody{
		Type:         req.MessageType,
		Text:         req.Message,
		SharedPostID: req.SharedPostID,
	})
	if err != nil {
		logger.Log.Error("send message", zap.String("userID", localUserID(c)), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(msg)
}

// History conversation between the local user and a peer
// @Summary Get conversation history with a peer
// @Tags Messages
// @Produce json
// @Router /conversations/{peerId} [get]
func (h *SocialHandler) History(c *fiber.Ctx) error {
	peerID := c.Params("peerId")
	msgs, err := h.messageUC.History(c.Context(), localUserID(c), peerID)
	if err != nil {
		logger.Log.Error("conversation history", zap.String("peerID", peerID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load conversation"})
	}
	return c.JSON(msgs)
}

func (h *SocialHandler) notify(c *fiber.Ctx, recipientID string, kind rtdomain.NotificationType, postID string) error {
	n, err := h.notifUC.Notify(c.Context(), localUserID(c), recipientID, kind, postID)
	if err != nil {
		logger.Log.Error("notify", zap.String("kind", string(kind)), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if n == nil {
		// own content, nothing created
		return c.JSON(fiber.Map{"created": false})
	}
	return c.JSON(n)
}

// Like notify a post owner about a like
// @Summary Like a post
// @Tags Notifications
// @Accept json
// @Produce json
// @Router /posts/{id}/like [post]
func (h *SocialHandler) Like(c *fiber.Ctx) error {
	type request struct {
		OwnerID string `json:"ownerId"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	return h.notify(c, req.OwnerID, rtdomain.NotificationLike, c.Params("id"))
}

// Comment notify a post owner about a comment
// @Summary Comment on a post
// @Tags Notifications
// @Accept json
// @Produce json
// @Router /posts/{id}/comment [post]
func (h *SocialHandler) Comment(c *fiber.Ctx) error {
	type request struct {
		OwnerID string `json:"ownerId"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	return h.notify(c, req.OwnerID, rtdomain.NotificationComment, c.Params("id"))
}

// Follow notify a user about a new follower
// @Summary Follow a user
// @Tags Notifications
// @Produce json
// @Router /users/{id}/follow [post]
func (h *SocialHandler) Follow(c *fiber.Ctx) error {
	return h.notify(c, c.Params("id"), rtdomain.NotificationFollow, "")
}

// Notifications the local user's feed, most recent first
// @Summary List my notifications
// @Tags Notifications
// @Produce json
// @Router /notifications [get]
func (h *SocialHandler) Notifications(c *fiber.Ctx) error {
	list, err := h.notifUC.List(c.Context(), localUserID(c))
	if err != nil {
		logger.Log.Error("list notifications", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load notifications"})
	}
	return c.JSON(list)
}

// MarkNotificationRead flip one entry
// @Summary Mark one notification read
// @Tags Notifications
// @Produce json
// @Router /notifications/{id}/read [put]
func (h *SocialHandler) MarkNotificationRead(c *fiber.Ctx) error {
	if err := h.notifUC.MarkRead(c.Context(), c.Params("id"), localUserID(c)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "notification not found"})
	}
	return c.JSON(fiber.Map{"message": "marked read"})
}

// MarkAllNotificationsRead flip every entry
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Router /notifications/read-all [put]
func (h *SocialHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := h.notifUC.MarkAllRead(c.Context(), localUserID(c)); err != nil {
		logger.Log.Error("mark all notifications read", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mark all read"})
	}
	return c.JSON(fiber.Map{"message": "all marked read"})
}
