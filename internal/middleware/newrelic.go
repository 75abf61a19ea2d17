package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// TransactionAttributes annotates the current New Relic transaction with the
// authenticated tenant and user so traces can be segmented per tenant. Must
// run after AuthMiddleware.
func TransactionAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		if claims := ClaimsFrom(c); claims != nil {
			txn.AddAttribute("tenant.id", claims.TenantID)
			txn.AddAttribute("user.id", claims.UserID)
			txn.AddAttribute("user.role", string(claims.Role))
		}

		c.Next()

		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
