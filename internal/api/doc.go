// Package api 組裝 HTTP 路由。
//
// 路由分為公開查詢、登入用戶、審核員與管理員四層，
// 權限判斷由 service 層的 Actor 檢查負責，這裡只掛上認證與限流中介層。
package api
