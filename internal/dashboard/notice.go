package dashboard

import "html/template"

// Notice is the "no data" status message shown above the charts.
// Both operations are idempotent.
type Notice interface {
	// Show makes the message visible, creating it on first use.
	Show()
	// Hide makes the message invisible. It does nothing if the message
	// was never shown.
	Hide()
}

// NoticeState describes the message node once it exists.
type NoticeState struct {
	ID      string        `json:"id"`
	HTML    template.HTML `json:"html"`
	Visible bool          `json:"visible"`
}

// noticeHTML is the fixed content of the message node. The node itself
// carries NoticeID and noticeClass.
const noticeHTML template.HTML = `
            <div class="flex items-center justify-center mb-2">
                <svg class="w-8 h-8 text-red-500 mr-2" fill="none" stroke="currentColor" viewBox="0 0 24 24">
                    <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M12 9v2m0 4h.01m-6.938 4h13.856c1.54 0 2.502-1.667 1.732-2.5L13.732 4c-.77-.833-1.964-.833-2.732 0L3.732 16.5c-.77.833.192 2.5 1.732 2.5z"></path>
                </svg>
                <span>No flight data found for your selection</span>
            </div>
            <p class="text-sm text-red-700">Try selecting different dates or city combinations.</p>
        `

// NoticeClass is the class list of the message node.
const NoticeClass = "text-center text-lg text-red-600 font-semibold my-8 p-6 bg-red-50 border border-red-200 rounded-xl"
