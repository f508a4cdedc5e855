//go:build windows

package uia

import (
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
)

var (
	clsidCUIAutomation = ole.NewGUID("{FF48DBA4-60EF-4201-AA87-54103EEF594E}")
	iidIUIAutomation   = ole.NewGUID("{30CBE57D-D9D0-452A-AB13-7AC5AC4825EE}")

	iidInvokePattern        = ole.NewGUID("{FB377FBE-8EA6-46D5-9C73-6499642D3059}")
	iidSelectionItemPattern = ole.NewGUID("{A8EFA66A-0FDA-421A-9194-38021F3578EA}")
	iidScrollItemPattern    = ole.NewGUID("{B488300F-D015-4F19-9C29-BB595E3645EF}")
)

const (
	patternInvoke        = 10000
	patternSelectionItem = 10010
	patternScrollItem    = 10017

	propProcessID    = 30002
	propControlType  = 30003
	propName         = 30005
	propIsEnabled    = 30010
	propAutomationID = 30011
	propIsOffscreen  = 30022

	controlListItem = 50007
	controlList     = 50008
	controlMenuItem = 50011
	controlWindow   = 50032

	treeScopeChildren    = 2
	treeScopeDescendants = 4
	treeScopeSubtree     = 7
)

// controlTypeNames maps UIA control type ids to the names used by
// platform.SearchSpec. Types the tool never matches on are omitted; unknown
// ids stringify to "".
var controlTypeNames = map[int32]string{
	controlListItem: "ListItem",
	controlList:     "List",
	controlMenuItem: "MenuItem",
	controlWindow:   "Window",
}

// controlTypeIDs is the reverse mapping, used to turn a SearchSpec field
// into a native property condition.
var controlTypeIDs = map[string]int32{
	"ListItem": controlListItem,
	"List":     controlList,
	"MenuItem": controlMenuItem,
	"Window":   controlWindow,
}

type rect struct {
	Left, Top, Right, Bottom int32
}

// iUIAutomation wraps the CUIAutomation coclass.
type iUIAutomation struct {
	ole.IUnknown
}

// iUIAutomationVtbl declares the IUIAutomation method slots in interface
// order. Slots past CreateNotCondition are never called and are left
// undeclared.
type iUIAutomationVtbl struct {
	ole.IUnknownVtbl
	CompareElements                   uintptr
	CompareRuntimeIds                 uintptr
	GetRootElement                    uintptr
	ElementFromHandle                 uintptr
	ElementFromPoint                  uintptr
	GetFocusedElement                 uintptr
	GetRootElementBuildCache          uintptr
	ElementFromHandleBuildCache       uintptr
	ElementFromPointBuildCache        uintptr
	GetFocusedElementBuildCache       uintptr
	CreateTreeWalker                  uintptr
	GetControlViewWalker              uintptr
	GetContentViewWalker              uintptr
	GetRawViewWalker                  uintptr
	GetRawViewCondition               uintptr
	GetControlViewCondition           uintptr
	GetContentViewCondition           uintptr
	CreateCacheRequest                uintptr
	CreateTrueCondition               uintptr
	CreateFalseCondition              uintptr
	CreatePropertyCondition           uintptr
	CreatePropertyConditionEx         uintptr
	CreateAndCondition                uintptr
	CreateAndConditionFromArray       uintptr
	CreateAndConditionFromNativeArray uintptr
	CreateOrCondition                 uintptr
	CreateOrConditionFromArray        uintptr
	CreateOrConditionFromNativeArray  uintptr
	CreateNotCondition                uintptr
}

func (a *iUIAutomation) vtbl() *iUIAutomationVtbl {
	return (*iUIAutomationVtbl)(unsafe.Pointer(a.RawVTable))
}

func newAutomation() (*iUIAutomation, error) {
	unknown, err := ole.CreateInstance(clsidCUIAutomation, iidIUIAutomation)
	if err != nil {
		return nil, err
	}
	return (*iUIAutomation)(unsafe.Pointer(unknown)), nil
}

func hresult(hr uintptr) error {
	if int32(hr) < 0 {
		return ole.NewError(hr)
	}
	return nil
}

func (a *iUIAutomation) getRootElement() (*iUIAutomationElement, error) {
	var el *iUIAutomationElement
	hr, _, _ := syscall.SyscallN(a.vtbl().GetRootElement,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(&el)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return el, nil
}

func (a *iUIAutomation) elementFromHandle(hwnd uintptr) (*iUIAutomationElement, error) {
	var el *iUIAutomationElement
	hr, _, _ := syscall.SyscallN(a.vtbl().ElementFromHandle,
		uintptr(unsafe.Pointer(a)),
		hwnd,
		uintptr(unsafe.Pointer(&el)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return el, nil
}

func (a *iUIAutomation) getFocusedElement() (*iUIAutomationElement, error) {
	var el *iUIAutomationElement
	hr, _, _ := syscall.SyscallN(a.vtbl().GetFocusedElement,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(&el)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return el, nil
}

func (a *iUIAutomation) createTrueCondition() (*iUIAutomationCondition, error) {
	var cond *iUIAutomationCondition
	hr, _, _ := syscall.SyscallN(a.vtbl().CreateTrueCondition,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(&cond)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return cond, nil
}

// createPropertyCondition builds a native equality condition. The VARIANT
// is larger than two machine words, so the x64 and arm64 ABIs pass it by
// reference.
func (a *iUIAutomation) createPropertyCondition(prop int32, value ole.VARIANT) (*iUIAutomationCondition, error) {
	var cond *iUIAutomationCondition
	hr, _, _ := syscall.SyscallN(a.vtbl().CreatePropertyCondition,
		uintptr(unsafe.Pointer(a)),
		uintptr(prop),
		uintptr(unsafe.Pointer(&value)),
		uintptr(unsafe.Pointer(&cond)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return cond, nil
}

func (a *iUIAutomation) createIntCondition(prop int32, value int32) (*iUIAutomationCondition, error) {
	return a.createPropertyCondition(prop, ole.NewVariant(ole.VT_I4, int64(value)))
}

func (a *iUIAutomation) createStringCondition(prop int32, value string) (*iUIAutomationCondition, error) {
	bstr := ole.SysAllocString(value)
	defer ole.SysFreeString(bstr)
	v := ole.NewVariant(ole.VT_BSTR, int64(uintptr(unsafe.Pointer(bstr))))
	return a.createPropertyCondition(prop, v)
}

func (a *iUIAutomation) createAndCondition(left, right *iUIAutomationCondition) (*iUIAutomationCondition, error) {
	var cond *iUIAutomationCondition
	hr, _, _ := syscall.SyscallN(a.vtbl().CreateAndCondition,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(left)),
		uintptr(unsafe.Pointer(right)),
		uintptr(unsafe.Pointer(&cond)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return cond, nil
}

// iUIAutomationCondition is opaque; the tool only builds conditions and
// hands them back to Find calls.
type iUIAutomationCondition struct {
	ole.IUnknown
}

// iUIAutomationElementArray wraps the element collection returned by
// FindAll.
type iUIAutomationElementArray struct {
	ole.IUnknown
}

type iUIAutomationElementArrayVtbl struct {
	ole.IUnknownVtbl
	GetLength  uintptr
	GetElement uintptr
}

func (arr *iUIAutomationElementArray) vtbl() *iUIAutomationElementArrayVtbl {
	return (*iUIAutomationElementArrayVtbl)(unsafe.Pointer(arr.RawVTable))
}

func (arr *iUIAutomationElementArray) length() (int, error) {
	var n int32
	hr, _, _ := syscall.SyscallN(arr.vtbl().GetLength,
		uintptr(unsafe.Pointer(arr)),
		uintptr(unsafe.Pointer(&n)))
	if err := hresult(hr); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (arr *iUIAutomationElementArray) element(i int) (*iUIAutomationElement, error) {
	var el *iUIAutomationElement
	hr, _, _ := syscall.SyscallN(arr.vtbl().GetElement,
		uintptr(unsafe.Pointer(arr)),
		uintptr(int32(i)),
		uintptr(unsafe.Pointer(&el)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return el, nil
}

// iUIAutomationElement wraps one node of the automation tree.
type iUIAutomationElement struct {
	ole.IUnknown
}

// iUIAutomationElementVtbl declares slots through
// get_CurrentBoundingRectangle; later slots are unused.
type iUIAutomationElementVtbl struct {
	ole.IUnknownVtbl
	SetFocus                        uintptr
	GetRuntimeId                    uintptr
	FindFirst                       uintptr
	FindAll                         uintptr
	FindFirstBuildCache             uintptr
	FindAllBuildCache               uintptr
	BuildUpdatedCache               uintptr
	GetCurrentPropertyValue         uintptr
	GetCurrentPropertyValueEx       uintptr
	GetCachedPropertyValue          uintptr
	GetCachedPropertyValueEx        uintptr
	GetCurrentPatternAs             uintptr
	GetCachedPatternAs              uintptr
	GetCurrentPattern               uintptr
	GetCachedPattern                uintptr
	GetCachedParent                 uintptr
	GetCachedChildren               uintptr
	GetCurrentProcessId             uintptr
	GetCurrentControlType           uintptr
	GetCurrentLocalizedControlType  uintptr
	GetCurrentName                  uintptr
	GetCurrentAcceleratorKey        uintptr
	GetCurrentAccessKey             uintptr
	GetCurrentHasKeyboardFocus      uintptr
	GetCurrentIsKeyboardFocusable   uintptr
	GetCurrentIsEnabled             uintptr
	GetCurrentAutomationId          uintptr
	GetCurrentClassName             uintptr
	GetCurrentHelpText              uintptr
	GetCurrentCulture               uintptr
	GetCurrentIsControlElement      uintptr
	GetCurrentIsContentElement      uintptr
	GetCurrentIsPassword            uintptr
	GetCurrentNativeWindowHandle    uintptr
	GetCurrentItemType              uintptr
	GetCurrentIsOffscreen           uintptr
	GetCurrentOrientation           uintptr
	GetCurrentFrameworkId           uintptr
	GetCurrentIsRequiredForForm     uintptr
	GetCurrentItemStatus            uintptr
	GetCurrentBoundingRectangle     uintptr
}

func (el *iUIAutomationElement) vtbl() *iUIAutomationElementVtbl {
	return (*iUIAutomationElementVtbl)(unsafe.Pointer(el.RawVTable))
}

func (el *iUIAutomationElement) setFocus() error {
	hr, _, _ := syscall.SyscallN(el.vtbl().SetFocus,
		uintptr(unsafe.Pointer(el)))
	return hresult(hr)
}

func (el *iUIAutomationElement) runtimeID() ([]int, error) {
	var sa *ole.SafeArray
	hr, _, _ := syscall.SyscallN(el.vtbl().GetRuntimeId,
		uintptr(unsafe.Pointer(el)),
		uintptr(unsafe.Pointer(&sa)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	if sa == nil {
		return nil, nil
	}
	conv := &ole.SafeArrayConversion{Array: sa}
	defer conv.Release()
	values := conv.ToValueArray()
	ids := make([]int, 0, len(values))
	for _, v := range values {
		if n, ok := v.(int32); ok {
			ids = append(ids, int(n))
		}
	}
	return ids, nil
}

func (el *iUIAutomationElement) findAll(scope int, cond *iUIAutomationCondition) (*iUIAutomationElementArray, error) {
	var arr *iUIAutomationElementArray
	hr, _, _ := syscall.SyscallN(el.vtbl().FindAll,
		uintptr(unsafe.Pointer(el)),
		uintptr(scope),
		uintptr(unsafe.Pointer(cond)),
		uintptr(unsafe.Pointer(&arr)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return arr, nil
}

func (el *iUIAutomationElement) getCurrentPattern(patternID int32, iid *ole.GUID) (*ole.IUnknown, error) {
	var unknown *ole.IUnknown
	hr, _, _ := syscall.SyscallN(el.vtbl().GetCurrentPatternAs,
		uintptr(unsafe.Pointer(el)),
		uintptr(patternID),
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(&unknown)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	if unknown == nil {
		return nil, ole.NewError(ole.E_NOINTERFACE)
	}
	return unknown, nil
}

func (el *iUIAutomationElement) stringProperty(slot uintptr) string {
	var bstr *uint16
	hr, _, _ := syscall.SyscallN(slot,
		uintptr(unsafe.Pointer(el)),
		uintptr(unsafe.Pointer(&bstr)))
	if hresult(hr) != nil || bstr == nil {
		return ""
	}
	s := ole.BstrToString(bstr)
	ole.SysFreeString((*int16)(unsafe.Pointer(bstr)))
	return s
}

func (el *iUIAutomationElement) name() string {
	return el.stringProperty(el.vtbl().GetCurrentName)
}

func (el *iUIAutomationElement) automationID() string {
	return el.stringProperty(el.vtbl().GetCurrentAutomationId)
}

func (el *iUIAutomationElement) controlType() (int32, error) {
	var ct int32
	hr, _, _ := syscall.SyscallN(el.vtbl().GetCurrentControlType,
		uintptr(unsafe.Pointer(el)),
		uintptr(unsafe.Pointer(&ct)))
	return ct, hresult(hr)
}

func (el *iUIAutomationElement) processID() (int32, error) {
	var pid int32
	hr, _, _ := syscall.SyscallN(el.vtbl().GetCurrentProcessId,
		uintptr(unsafe.Pointer(el)),
		uintptr(unsafe.Pointer(&pid)))
	return pid, hresult(hr)
}

func (el *iUIAutomationElement) boolProperty(slot uintptr) (bool, error) {
	var v int32
	hr, _, _ := syscall.SyscallN(slot,
		uintptr(unsafe.Pointer(el)),
		uintptr(unsafe.Pointer(&v)))
	return v != 0, hresult(hr)
}

func (el *iUIAutomationElement) isEnabled() (bool, error) {
	return el.boolProperty(el.vtbl().GetCurrentIsEnabled)
}

func (el *iUIAutomationElement) isOffscreen() (bool, error) {
	return el.boolProperty(el.vtbl().GetCurrentIsOffscreen)
}

func (el *iUIAutomationElement) hasKeyboardFocus() (bool, error) {
	return el.boolProperty(el.vtbl().GetCurrentHasKeyboardFocus)
}

func (el *iUIAutomationElement) nativeWindowHandle() (uintptr, error) {
	var hwnd uintptr
	hr, _, _ := syscall.SyscallN(el.vtbl().GetCurrentNativeWindowHandle,
		uintptr(unsafe.Pointer(el)),
		uintptr(unsafe.Pointer(&hwnd)))
	return hwnd, hresult(hr)
}

func (el *iUIAutomationElement) boundingRectangle() (rect, error) {
	var r rect
	hr, _, _ := syscall.SyscallN(el.vtbl().GetCurrentBoundingRectangle,
		uintptr(unsafe.Pointer(el)),
		uintptr(unsafe.Pointer(&r)))
	return r, hresult(hr)
}

// iUIAutomationInvokePattern exposes Invoke.
type iUIAutomationInvokePattern struct {
	ole.IUnknown
}

type iUIAutomationInvokePatternVtbl struct {
	ole.IUnknownVtbl
	Invoke uintptr
}

func (p *iUIAutomationInvokePattern) invoke() error {
	vtbl := (*iUIAutomationInvokePatternVtbl)(unsafe.Pointer(p.RawVTable))
	hr, _, _ := syscall.SyscallN(vtbl.Invoke,
		uintptr(unsafe.Pointer(p)))
	return hresult(hr)
}

// iUIAutomationSelectionItemPattern exposes Select.
type iUIAutomationSelectionItemPattern struct {
	ole.IUnknown
}

type iUIAutomationSelectionItemPatternVtbl struct {
	ole.IUnknownVtbl
	Select              uintptr
	AddToSelection      uintptr
	RemoveFromSelection uintptr
}

func (p *iUIAutomationSelectionItemPattern) selectItem() error {
	vtbl := (*iUIAutomationSelectionItemPatternVtbl)(unsafe.Pointer(p.RawVTable))
	hr, _, _ := syscall.SyscallN(vtbl.Select,
		uintptr(unsafe.Pointer(p)))
	return hresult(hr)
}

// iUIAutomationScrollItemPattern exposes ScrollIntoView.
type iUIAutomationScrollItemPattern struct {
	ole.IUnknown
}

type iUIAutomationScrollItemPatternVtbl struct {
	ole.IUnknownVtbl
	ScrollIntoView uintptr
}

func (p *iUIAutomationScrollItemPattern) scrollIntoView() error {
	vtbl := (*iUIAutomationScrollItemPatternVtbl)(unsafe.Pointer(p.RawVTable))
	hr, _, _ := syscall.SyscallN(vtbl.ScrollIntoView,
		uintptr(unsafe.Pointer(p)))
	return hresult(hr)
}
