// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 包含身份驗證、限流、存取日誌與跨域設定，
// 以及把業務錯誤轉成 HTTP 回應的共用函數。
package middleware
