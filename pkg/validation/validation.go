package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]{1,15}$`)

// Register 在 gin 的校验引擎上注册自定义规则，并以 json 标签作为字段名
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}
	return RegisterOn(v)
}

// RegisterOn 在指定校验器上注册自定义规则
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// FieldErrors 将绑定错误转换为 字段 → 提示 映射
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fieldPath(fe)] = message(fe)
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields[typeErr.Field] = fmt.Sprintf("类型错误，应为 %s", typeErr.Type.String())
		return fields
	}

	fields["non_field_errors"] = "请求体格式无效"
	return fields
}

// fieldPath 去掉顶层结构体名：CreateEmployeeRequest.achievements[0].achievement_id → achievements[0].achievement_id
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "该字段为必填项"
	case "email":
		return "邮箱格式无效"
	case "max":
		return fmt.Sprintf("长度不能超过 %s", fe.Param())
	case "min":
		return fmt.Sprintf("长度不能少于 %s", fe.Param())
	case "uuid":
		return "ID 格式无效"
	case "phone":
		return "电话号码格式无效"
	case "datetime":
		return fmt.Sprintf("日期格式应为 %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("取值必须为 %s 之一", fe.Param())
	default:
		return fmt.Sprintf("校验失败（%s）", fe.Tag())
	}
}
