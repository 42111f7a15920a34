package middleware

import "github.com/gin-gonic/gin"

// callerIDKey is the key used to store the authenticated collaborator's ID in
// the Gin context. Using a custom type prevents collisions.
const callerIDKey = contextKey("callerID")

// GetCallerIDFromContext retrieves the authenticated collaborator ID from the
// Gin context. It returns the ID and a boolean indicating if it was found.
func GetCallerIDFromContext(c *gin.Context) (string, bool) {
	callerIDVal, exists := c.Get(string(callerIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(callerIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	callerID, ok := callerIDVal.(string)
	if !ok {
		return "", false
	}

	return callerID, true
}
