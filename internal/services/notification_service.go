package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/faroukali99/reserveFound/internal/models"
)

type NotificationType string

const (
	NotifyTransactionCompleted NotificationType = "TRANSACTION_COMPLETED"
	NotifyTransactionFailed    NotificationType = "TRANSACTION_FAILED"
	NotifyBalanceUpdated       NotificationType = "BALANCE_UPDATED"
	NotifyLowBalance           NotificationType = "LOW_BALANCE_ALERT"
	NotifySecurityAlert        NotificationType = "SECURITY_ALERT"
	NotifyLargeTransaction     NotificationType = "LARGE_TRANSACTION"
)

// Notification is one event delivered to a user's registered listeners
type Notification struct {
	Type    NotificationType    `json:"type"`
	UserID  int64               `json:"userId"`
	Message string              `json:"message"`
	Fund    *models.ReserveFund `json:"fund,omitempty"`
	SentAt  time.Time           `json:"sentAt"`
}

// NotificationService fans transaction events out to per-user listener
// channels. Delivery is non-blocking: a listener that cannot keep up
// drops events rather than stalling the ledger.
type NotificationService struct {
	mu        sync.RWMutex
	listeners map[int64][]chan Notification
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		listeners: make(map[int64][]chan Notification),
	}
}

// Register returns a buffered channel receiving the user's events
func (n *NotificationService) Register(userID int64) chan Notification {
	ch := make(chan Notification, 16)
	n.mu.Lock()
	n.listeners[userID] = append(n.listeners[userID], ch)
	n.mu.Unlock()
	return ch
}

func (n *NotificationService) Unregister(userID int64, ch chan Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels := n.listeners[userID]
	for i, c := range channels {
		if c == ch {
			n.listeners[userID] = append(channels[:i], channels[i+1:]...)
			close(c)
			return
		}
	}
}

func (n *NotificationService) TransactionCompleted(fund *models.ReserveFund) {
	message := fmt.Sprintf("Transaction %s of %s XOF completed",
		fund.Reference, fund.Amount.StringFixed(2))
	n.send(fund.UserID, NotifyTransactionCompleted, message, fund)
}

func (n *NotificationService) TransactionFailed(fund *models.ReserveFund, reason string) {
	message := fmt.Sprintf("Transaction %s failed: %s", fund.Reference, reason)
	n.send(fund.UserID, NotifyTransactionFailed, message, fund)
}

func (n *NotificationService) BalanceUpdated(userID int64, balance string) {
	n.send(userID, NotifyBalanceUpdated, fmt.Sprintf("Your balance is now %s XOF", balance), nil)
}

func (n *NotificationService) LowBalance(userID int64, currentBalance, threshold string) {
	message := fmt.Sprintf("Warning: your balance (%s XOF) is below the threshold (%s XOF)",
		currentBalance, threshold)
	n.send(userID, NotifyLowBalance, message, nil)
}

func (n *NotificationService) SecurityAlert(userID int64, alertMessage string) {
	n.send(userID, NotifySecurityAlert, "Security alert: "+alertMessage, nil)
}

func (n *NotificationService) LargeTransaction(userID int64, fund *models.ReserveFund) {
	message := fmt.Sprintf("Large transaction detected: %s XOF - %s",
		fund.Amount.StringFixed(2), fund.Description)
	n.send(userID, NotifyLargeTransaction, message, fund)
}

func (n *NotificationService) send(userID int64, notificationType NotificationType, message string, fund *models.ReserveFund) {
	notification := Notification{
		Type:    notificationType,
		UserID:  userID,
		Message: message,
		Fund:    fund,
		SentAt:  time.Now(),
	}

	n.mu.RLock()
	channels := n.listeners[userID]
	n.mu.RUnlock()

	if len(channels) == 0 {
		log.Printf("[NOTIFY] %s for user %d: %s", notificationType, userID, message)
		return
	}
	for _, ch := range channels {
		select {
		case ch <- notification:
		default:
			log.Printf("[NOTIFY] Dropped %s for user %d: listener full", notificationType, userID)
		}
	}
}
