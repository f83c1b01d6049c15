package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"runtime"
	"sort"
	"strings"
	"time"

	"dscheirer.com/segmux/boards"
	"dscheirer.com/segmux/multiplex"
	"github.com/buger/jsonparser"
)

// setting keys
const (
	sBoard          = "board"
	sSettleTime     = "settleTime"
	sSegmentPins    = "segmentPins"
	sDigitPins      = "digitPins"
	sDigitActiveLow = "digitActiveLow"
	sValue          = "value"
	sCountInterval  = "countInterval"
	sHTTPAddr       = "httpAddr"
	sLogFile        = "logFile"
	sDebug          = "debug_dump"
	sI2CBus         = "i2c_bus"
	sI2CDev         = "i2c_device"
)

// keep settings generic, the default's type drives the conversion
type configSettings struct {
	settings map[string]interface{}
}

func defaultSettings() configSettings {
	s := make(map[string]interface{})

	board := "log"
	if runtime.GOARCH == "arm" || runtime.GOARCH == "arm64" {
		board = "rpio"
	}
	s[sBoard] = board
	s[sSettleTime] = multiplex.DefaultSettle
	s[sSegmentPins] = append([]string(nil), boards.DefaultPins.Segments[:]...)
	s[sDigitPins] = append([]string(nil), boards.DefaultPins.Digits[:]...)
	s[sDigitActiveLow] = false
	// what the bench firmware counted to
	s[sValue] = int64(12345)
	s[sCountInterval] = time.Duration(0)
	s[sHTTPAddr] = ""
	s[sLogFile] = "/var/log/segmux.log"
	s[sDebug] = false
	s[sI2CBus] = ""
	s[sI2CDev] = boards.DefaultBackpackAddr

	return configSettings{settings: s}
}

func (s *configSettings) settingsFromJSON(data []byte) error {
	// walk the whole object first, a truncated file must not read as defaults
	err := jsonparser.ObjectEach(data, func(_ []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		return nil
	})
	if err != nil {
		return fmt.Errorf("bad config: %w", err)
	}

	tmp := defaultSettings()
	for k, initVal := range tmp.settings {
		// ignore missing fields
		_, dataType, _, err := jsonparser.Get(data, k)
		if err == jsonparser.KeyPathNotFoundError || dataType == jsonparser.NotExist {
			continue
		}
		if err != nil {
			return fmt.Errorf("setting %s: %w", k, err)
		}

		switch initVal.(type) {
		case int:
			var v int64
			v, err = jsonparser.GetInt(data, k)
			if err == nil {
				s.settings[k] = int(v)
			}
		case int64:
			var v int64
			v, err = jsonparser.GetInt(data, k)
			if err == nil {
				s.settings[k] = v
			}
		case bool:
			var bVal bool
			bVal, err = jsonparser.GetBoolean(data, k)
			if err != nil {
				// try "true" and "false"
				str, _ := jsonparser.GetString(data, k)
				switch strings.ToLower(str) {
				case "true":
					bVal, err = true, nil
				case "false":
					bVal, err = false, nil
				}
			}
			if err == nil {
				s.settings[k] = bVal
			}
		case time.Duration:
			var dur string
			dur, err = jsonparser.GetString(data, k)
			if err == nil {
				var d time.Duration
				d, err = time.ParseDuration(dur)
				if err == nil {
					s.settings[k] = d
				}
			}
		case string:
			var str string
			str, err = jsonparser.GetString(data, k)
			if err == nil {
				s.settings[k] = str
			}
		case []string:
			list := []string{}
			var inner error
			_, err = jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, _ error) {
				if dt != jsonparser.String {
					inner = fmt.Errorf("not a string: %s", value)
					return
				}
				list = append(list, string(value))
			}, k)
			if err == nil {
				err = inner
			}
			if err == nil {
				s.settings[k] = list
			}
		default:
			err = fmt.Errorf("bad type: %T", initVal)
		}
		if err != nil {
			return fmt.Errorf("setting %s: %w", k, err)
		}
	}
	return s.validate()
}

func (s *configSettings) validate() error {
	if s.GetInt64(sValue) < 0 {
		return fmt.Errorf("setting %s: must not be negative", sValue)
	}
	if s.GetDuration(sSettleTime) < 0 {
		return fmt.Errorf("setting %s: must not be negative", sSettleTime)
	}
	if dev := s.GetInt(sI2CDev); dev < 0 || dev > 0x7f {
		return fmt.Errorf("setting %s: 0x%x is not a 7-bit address", sI2CDev, dev)
	}
	if s.GetDuration(sCountInterval) < 0 {
		return fmt.Errorf("setting %s: must not be negative", sCountInterval)
	}
	return nil
}

// loadSettings reads path over the defaults, an empty path is defaults only
func loadSettings(path string) (configSettings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("could not load conf file: %w", err)
	}
	log.Printf("Reading configuration from '%s'", path)

	if err := s.settingsFromJSON(data); err != nil {
		return s, err
	}
	return s, nil
}

func (s *configSettings) GetString(key string) string {
	switch v := s.settings[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s *configSettings) GetStrings(key string) []string {
	switch v := s.settings[key].(type) {
	case []string:
		return v
	default:
		return nil
	}
}

func (s *configSettings) GetBool(key string) bool {
	switch v := s.settings[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s *configSettings) GetDuration(key string) time.Duration {
	switch v := s.settings[key].(type) {
	case time.Duration:
		return v
	default:
		return -1
	}
}

func (s *configSettings) GetInt64(key string) int64 {
	switch v := s.settings[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (s *configSettings) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	default:
		return 0
	}
}

func (s *configSettings) Dump() {
	keys := make([]string, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := s.settings[k]
		log.Printf("%s : %T: %v", k, v, v)
	}
}
