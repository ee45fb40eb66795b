// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// APIKeyHeader 除 Authorization: Bearer 外也接受的请求头
const APIKeyHeader = "X-API-Key"

// RequireAPIKey 返回 API key 校验中间件；未配置 key 时放行
func (m *Middleware) RequireAPIKey() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if len(m.apiKeys) == 0 {
			c.Next(ctx)
			return
		}

		key := string(c.Request.Header.Peek(APIKeyHeader))
		if key == "" {
			auth := string(c.Request.Header.Peek("Authorization"))
			if strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
		}
		if key == "" {
			c.JSON(consts.StatusUnauthorized, map[string]string{
				"error": "authentication required",
			})
			c.Abort()
			return
		}
		if !m.validKey(key) {
			c.JSON(consts.StatusForbidden, map[string]string{
				"error": "permission denied",
			})
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}

func (m *Middleware) validKey(key string) bool {
	ok := false
	for k := range m.apiKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			ok = true
		}
	}
	return ok
}
