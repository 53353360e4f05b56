package cont

import "context"

type ctxKey string

const actorKey ctxKey = "actor"

// PutActor stores the authenticated ops-API actor name in the context.
// Config writes record it as updated_by.
func PutActor(c context.Context, name string) context.Context {
	return context.WithValue(c, actorKey, name)
}

func GetActor(c context.Context) string {
	name, ok := c.Value(actorKey).(string)
	if !ok || name == "" {
		return "ops"
	}
	return name
}
